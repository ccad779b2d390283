package shift

import (
	"context"
)

// Repository reads shift definitions. Shifts are owned by an external
// directory; this module only consumes them.
type Repository interface {
	// GetByID retrieves a shift with company isolation; nil when not found.
	GetByID(ctx context.Context, id string, companyID string) (*Shift, error)

	// GetDefault retrieves the company's active default shift; nil when the
	// company has none. Absence of a shift is not an error: callers treat it
	// as "no lateness/overtime tracking".
	GetDefault(ctx context.Context, companyID string) (*Shift, error)

	// ListActive returns all active shifts for a company.
	ListActive(ctx context.Context, companyID string) ([]Shift, error)
}
