package leave

import (
	"context"
	"time"
)

// Repository is the read-only leave/holiday directory used for today-status
// overlays and history rollups.
type Repository interface {
	// GetApprovedLeaveOn returns the approved leave covering the date,
	// or nil when the employee is not on leave.
	GetApprovedLeaveOn(ctx context.Context, employeeID string, date time.Time, companyID string) (*Leave, error)

	// GetHolidayOn returns the company holiday on the date, or nil.
	GetHolidayOn(ctx context.Context, companyID string, date time.Time) (*Holiday, error)

	// CountHolidaysInRange counts company holidays with dates in [from, to].
	CountHolidaysInRange(ctx context.Context, companyID string, from, to time.Time) (int, error)
}
