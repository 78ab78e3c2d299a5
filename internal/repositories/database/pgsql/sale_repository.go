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

// PgxSaleRepository reads sale headers and costed items owned by the checkout
// subsystem. The posting engine never writes these tables.
type PgxSaleRepository struct {
	BaseRepository
}

// NewSaleRepository creates a read-only repository over sales data.
func NewSaleRepository(pool *pgxpool.Pool) portsrepo.SaleReader {
	return &PgxSaleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SaleReader = (*PgxSaleRepository)(nil)

// GetSaleTotals loads the stored header totals of a sale.
func (r *PgxSaleRepository) GetSaleTotals(ctx context.Context, saleID string) (*domain.SaleTotals, error) {
	query := `
		SELECT sale_id, subtotal, discount, tax, total, payment_method, sale_date
		FROM sales
		WHERE sale_id = $1;
	`
	var s domain.SaleTotals
	err := r.Pool.QueryRow(ctx, query, saleID).Scan(
		&s.SaleID,
		&s.Subtotal,
		&s.Discount,
		&s.Tax,
		&s.Total,
		&s.PaymentMethod,
		&s.SaleDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find sale "+saleID, err)
	}
	return &s, nil
}

// ListItemCosts returns quantity and cost price per sale line. Items without
// cost data come back with a zero cost price and simply contribute nothing to
// the COGS total.
func (r *PgxSaleRepository) ListItemCosts(ctx context.Context, saleID string) ([]domain.SaleItemCost, error) {
	query := `
		SELECT quantity, COALESCE(cost_price, 0)
		FROM sale_items
		WHERE sale_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, saleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for sale "+saleID, err)
	}
	defer rows.Close()

	items := []domain.SaleItemCost{}
	for rows.Next() {
		var item domain.SaleItemCost
		if err := rows.Scan(&item.Quantity, &item.CostPrice); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row for sale "+saleID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows for sale "+saleID, err)
	}
	return items, nil
}
