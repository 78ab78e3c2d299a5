package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborpos/ledger/internal/apperrors"
	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
)

type PgxPeriodRepository struct {
	BaseRepository
}

// NewPeriodRepository creates a repository for accounting periods.
func NewPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepository {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepository = (*PgxPeriodRepository)(nil)

const periodColumns = `period_id, start_date, end_date, status, closed_by, closed_at`

// FindPeriodCovering returns the period whose range contains the date,
// regardless of status. Ranges are not expected to overlap; the latest start
// wins if they ever do.
func (r *PgxPeriodRepository) FindPeriodCovering(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE $1::date BETWEEN start_date AND end_date
		ORDER BY start_date DESC
		LIMIT 1;
	`
	return r.scanPeriod(r.Pool.QueryRow(ctx, query, date))
}

// FindPeriodByID retrieves a period by id.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1;`
	return r.scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
}

func (r *PgxPeriodRepository) scanPeriod(row pgx.Row) (*domain.AccountingPeriod, error) {
	var p domain.AccountingPeriod
	err := row.Scan(
		&p.PeriodID,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.ClosedBy,
		&p.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan accounting period", err)
	}
	return &p, nil
}

// InsertPeriod persists a new period row.
func (r *PgxPeriodRepository) InsertPeriod(ctx context.Context, period domain.AccountingPeriod) error {
	query := `
		INSERT INTO accounting_periods (period_id, start_date, end_date, status, closed_by, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID,
		period.StartDate,
		period.EndDate,
		period.Status,
		period.ClosedBy,
		period.ClosedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert accounting period "+period.PeriodID, err)
	}
	return nil
}

// UpdatePeriodStatus transitions a period's status.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, actorID string, at time.Time) error {
	query := `
		UPDATE accounting_periods
		SET status = $2, closed_by = $3, closed_at = $4
		WHERE period_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, periodID, status, actorID, at)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update period status for "+periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("accounting period " + periodID + " not found for update")
	}
	return nil
}
