package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborpos/ledger/internal/apperrors"
	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a read-only repository over the chart of accounts.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// FindAccountByCode retrieves an account by its stable code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `
		SELECT account_id, code, name, account_type, classification, is_active, created_at, created_by
		FROM accounts
		WHERE code = $1;
	`
	var account domain.Account
	err := r.Pool.QueryRow(ctx, query, code).Scan(
		&account.AccountID,
		&account.Code,
		&account.Name,
		&account.AccountType,
		&account.Classification,
		&account.IsActive,
		&account.CreatedAt,
		&account.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by code "+code, err)
	}
	return &account, nil
}

// ListAccounts returns the full chart ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT account_id, code, name, account_type, classification, is_active, created_at, created_by
		FROM accounts
		ORDER BY code;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.AccountID,
			&a.Code,
			&a.Name,
			&a.AccountType,
			&a.Classification,
			&a.IsActive,
			&a.CreatedAt,
			&a.CreatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}
