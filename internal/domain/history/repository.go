package history

import (
	"context"
	"time"
)

// Repository is the read side over attendance storage. Not in the hot write
// path; queries may aggregate freely.
type Repository interface {
	// CountStatuses returns per-status record counts for [from, to].
	CountStatuses(ctx context.Context, companyID string, from, to time.Time) (StatusCounts, error)

	// ListRows returns records joined with shift assignments for [from, to].
	ListRows(ctx context.Context, companyID string, from, to time.Time) ([]RecordRow, error)
}
