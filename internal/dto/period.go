package dto

import "time"

// ClosePeriodRequest creates a new accounting period in CLOSED status.
type ClosePeriodRequest struct {
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// ClosePeriodResponse returns the identifier of the newly created period.
type ClosePeriodResponse struct {
	PeriodID string `json:"periodID"`
}
