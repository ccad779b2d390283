package regularization

import (
	"context"
	"time"
)

// Repository defines storage for regularization requests. A partial unique
// constraint on (employee_id, date) WHERE status = 'PENDING' enforces the
// one-pending-per-date rule at the storage layer.
type Repository interface {
	// Create inserts a new PENDING request; returns ErrDuplicatePending when
	// one already exists for the employee and date.
	Create(ctx context.Context, req Request) (Request, error)

	// GetByID retrieves a request with company isolation.
	GetByID(ctx context.Context, id string, companyID string) (Request, error)

	// HasPending reports whether a PENDING request exists for the date.
	HasPending(ctx context.Context, employeeID string, date time.Time, companyID string) (bool, error)

	// Transition moves the request out of PENDING. The update is guarded by
	// status = 'PENDING' so it can fire at most once; returns
	// ErrAlreadyProcessed when the guard rejects the write.
	Transition(ctx context.Context, req Request) error

	// List retrieves requests with filters and pagination.
	List(ctx context.Context, filter Filter, companyID string) ([]Request, int64, error)
}
