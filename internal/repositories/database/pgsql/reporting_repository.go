package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/harborpos/ledger/internal/apperrors"
	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
)

// reportingRepository implements the read-side aggregate queries.
type reportingRepository struct {
	BaseRepository
	caps SchemaCapabilities
}

// NewReportingRepository creates a new reporting repository.
func NewReportingRepository(pool *pgxpool.Pool, caps SchemaCapabilities) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
		caps:           caps,
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// dimensionColumn maps a reporting dimension to its accounts column.
func dimensionColumn(dim portsrepo.AccountDimension) (string, error) {
	switch dim {
	case portsrepo.ByType:
		return "a.account_type", nil
	case portsrepo.ByCode:
		return "a.code", nil
	case portsrepo.ByClassification:
		return "a.classification", nil
	default:
		return "", apperrors.NewAppError(500, "unknown reporting dimension "+string(dim), nil)
	}
}

func (r *reportingRepository) sumMovement(ctx context.Context, dim portsrepo.AccountDimension, keys []string, dateClause string, dateArgs []interface{}, creditMinusDebit bool) (decimal.Decimal, error) {
	column, err := dimensionColumn(dim)
	if err != nil {
		return decimal.Zero, err
	}

	sumExpr := `l.credit_amount - l.debit_amount`
	if !creditMinusDebit {
		sumExpr = `l.debit_amount - l.credit_amount`
	}

	query := `
		SELECT COALESCE(SUM(` + sumExpr + `), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		JOIN accounts a ON l.account_id = a.account_id
		WHERE ` + column + ` = ANY($1)
		  AND ` + dateClause
	if r.caps.HasEntryStatus {
		query += ` AND e.status = 'POSTED'`
	}

	args := append([]interface{}{keys}, dateArgs...)
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum ledger movement", err)
	}
	return total, nil
}

// SumMovementBetween sums posted movement over [start, end] for accounts
// matching the given keys on the given dimension.
func (r *reportingRepository) SumMovementBetween(ctx context.Context, dim portsrepo.AccountDimension, keys []string, start, end time.Time, creditMinusDebit bool) (decimal.Decimal, error) {
	return r.sumMovement(ctx, dim, keys, `e.entry_date BETWEEN $2 AND $3`, []interface{}{start, end}, creditMinusDebit)
}

// SumMovementAsOf sums posted movement for entry dates up to and including asOf.
func (r *reportingRepository) SumMovementAsOf(ctx context.Context, dim portsrepo.AccountDimension, keys []string, asOf time.Time, creditMinusDebit bool) (decimal.Decimal, error) {
	return r.sumMovement(ctx, dim, keys, `e.entry_date <= $2`, []interface{}{asOf}, creditMinusDebit)
}

// GetTrialBalanceData returns every account's debit/credit totals across all
// posted entries, grouped and ordered by account code. Accounts with no
// movement appear with zero totals.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context) ([]domain.TrialBalanceRow, error) {
	statusFilter := ``
	if r.caps.HasEntryStatus {
		statusFilter = ` WHERE e.status = 'POSTED'`
	}
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			COALESCE(m.total_debit, 0) AS total_debit,
			COALESCE(m.total_credit, 0) AS total_credit
		FROM accounts a
		LEFT JOIN (
			SELECT l.account_id,
			       SUM(l.debit_amount) AS total_debit,
			       SUM(l.credit_amount) AS total_credit
			FROM journal_entry_lines l
			JOIN journal_entries e ON l.entry_id = e.entry_id` + statusFilter + `
			GROUP BY l.account_id
		) m ON m.account_id = a.account_id
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance data", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&row.AccountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}
		row.Net = row.Debit.Sub(row.Credit)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows", err)
	}
	return result, nil
}
