package history

import (
	"context"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/attendance"
)

// Service exposes read-only attendance rollups.
type Service interface {
	// List retrieves attendance records with filters and pagination (admin).
	List(ctx context.Context, filter attendance.Filter, companyID string) ([]attendance.AttendanceResponse, int64, error)

	// Detail retrieves a single attendance record by ID (admin).
	Detail(ctx context.Context, id string, companyID string) (attendance.AttendanceResponse, error)

	// Summary computes the per-status rollup for a date range, with dynamic
	// lateness and calculated absences.
	Summary(ctx context.Context, companyID string, filter SummaryFilter) (Summary, error)
}
