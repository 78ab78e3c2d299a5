package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harborpos/ledger/internal/apperrors"
	"github.com/harborpos/ledger/internal/core/domain"
	portsrepo "github.com/harborpos/ledger/internal/core/ports/repositories"
	portssvc "github.com/harborpos/ledger/internal/core/ports/services"
	"github.com/harborpos/ledger/internal/middleware"
)

// periodService answers period-lock questions for the posting engine and
// persists the administrative close/lock actions.
type periodService struct {
	periodRepo portsrepo.PeriodRepository
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo portsrepo.PeriodRepository) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// IsPeriodLocked reports whether a locked period covers the date. Closed
// periods do not block; only an explicit lock does.
func (s *periodService) IsPeriodLocked(ctx context.Context, date time.Time) (bool, error) {
	period, err := s.periodRepo.FindPeriodCovering(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find period covering %s: %w", date.Format("2006-01-02"), err)
	}
	return period.Status == domain.PeriodLocked, nil
}

// ResolvePeriod returns the id of the period covering the date regardless of
// status. A nil id means no period record exists, which is legal.
func (s *periodService) ResolvePeriod(ctx context.Context, date time.Time) (*string, error) {
	period, err := s.periodRepo.FindPeriodCovering(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find period covering %s: %w", date.Format("2006-01-02"), err)
	}
	return &period.PeriodID, nil
}

// ClosePeriod creates a new period row in CLOSED status and returns its id.
func (s *periodService) ClosePeriod(ctx context.Context, startDate, endDate time.Time, actorID string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if endDate.Before(startDate) {
		return "", apperrors.NewValidationFailedError("period end date precedes start date", nil)
	}

	now := time.Now()
	period := domain.AccountingPeriod{
		PeriodID:  uuid.NewString(),
		StartDate: startDate,
		EndDate:   endDate,
		Status:    domain.PeriodClosed,
		ClosedBy:  &actorID,
		ClosedAt:  &now,
	}
	if err := s.periodRepo.InsertPeriod(ctx, period); err != nil {
		return "", fmt.Errorf("failed to close period: %w", err)
	}
	logger.Info("Closed accounting period",
		slog.String("period_id", period.PeriodID),
		slog.String("start_date", startDate.Format("2006-01-02")),
		slog.String("end_date", endDate.Format("2006-01-02")),
	)
	return period.PeriodID, nil
}

// LockPeriod transitions an existing period to LOCKED. Locking an already
// locked period is a no-op success.
func (s *periodService) LockPeriod(ctx context.Context, periodID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("accounting period " + periodID + " not found")
		}
		return fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if period.Status == domain.PeriodLocked {
		return nil
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodLocked, actorID, time.Now()); err != nil {
		return fmt.Errorf("failed to lock period %s: %w", periodID, err)
	}
	logger.Info("Locked accounting period", slog.String("period_id", periodID))
	return nil
}
