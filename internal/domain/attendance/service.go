package attendance

import (
	"context"
)

// Service defines business logic for attendance operations
type Service interface {
	// CheckIn processes employee check-in with geofence and lateness rules
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// CheckOut processes employee check-out and computes derived minutes
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// StartBreak opens a break interval on today's record
	StartBreak(ctx context.Context, employeeID, companyID string) error

	// EndBreak closes the open break interval and returns its duration
	EndBreak(ctx context.Context, employeeID, companyID string) (EndBreakResponse, error)

	// GetTodayStatus returns today's record plus holiday/weekend/leave overlay
	GetTodayStatus(ctx context.Context, employeeID, companyID string) (TodayStatusResponse, error)

	// CreateManualEntry creates or replaces a record on behalf of an employee (admin)
	CreateManualEntry(ctx context.Context, companyID string, req ManualEntryRequest, actorID string) (AttendanceResponse, error)

	// BulkLock locks approved records in a date range (admin)
	BulkLock(ctx context.Context, companyID string, req BulkLockRequest) (BulkLockResponse, error)
}
