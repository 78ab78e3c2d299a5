package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborpos/ledger/internal/apperrors"
	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
)

// PgxExpenseCategoryRepository reads expense categories, consulted only to
// resolve an optional per-category account code.
type PgxExpenseCategoryRepository struct {
	BaseRepository
	caps SchemaCapabilities
}

// NewExpenseCategoryRepository creates a read-only repository over expense categories.
func NewExpenseCategoryRepository(pool *pgxpool.Pool, caps SchemaCapabilities) portsrepo.ExpenseCategoryReader {
	return &PgxExpenseCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		caps:           caps,
	}
}

var _ portsrepo.ExpenseCategoryReader = (*PgxExpenseCategoryRepository)(nil)

// FindCategoryByID retrieves a category. When the schema lacks the
// account_code column the returned AccountCode is empty, which callers treat
// as "use the default expense account".
func (r *PgxExpenseCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.ExpenseCategory, error) {
	var c domain.ExpenseCategory
	var err error
	if r.caps.HasCategoryAccountCode {
		var code sql.NullString
		query := `SELECT category_id, name, account_code FROM expense_categories WHERE category_id = $1;`
		err = r.Pool.QueryRow(ctx, query, categoryID).Scan(&c.CategoryID, &c.Name, &code)
		if code.Valid {
			c.AccountCode = code.String
		}
	} else {
		query := `SELECT category_id, name FROM expense_categories WHERE category_id = $1;`
		err = r.Pool.QueryRow(ctx, query, categoryID).Scan(&c.CategoryID, &c.Name)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find expense category "+categoryID, err)
	}
	return &c, nil
}
