package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records. All methods take a
// companyID to prevent cross-company data access.
//
// The (employee_id, date) pair is unique at the storage layer. UpsertCheckIn
// must be a single conditional write (insert-or-update keyed by that
// constraint), never a read-then-write pair, so concurrent check-in attempts
// cannot create duplicates or lose updates.
type Repository interface {
	// UpsertCheckIn atomically inserts today's record, or fills in the
	// check-in fields of an existing record whose check_in_time is still
	// null. Returns ErrAlreadyCheckedIn when the record already has a
	// check-in, and ErrRecordLocked when it is locked.
	UpsertCheckIn(ctx context.Context, att Attendance) (Attendance, error)

	// Create inserts a new record unconditionally. Used by manual entry and
	// regularization for dates that have no record yet.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves a record by ID with company isolation.
	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// GetByEmployeeAndDate retrieves the record for one normalized date,
	// or nil when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Attendance, error)

	// HasCheckedIn reports whether a record with a non-null check_in_time
	// exists for the date. Used by the late check-in sweep.
	HasCheckedIn(ctx context.Context, employeeID string, date time.Time, companyID string) (bool, error)

	// Update writes the record back guarded by its Version; returns
	// ErrVersionConflict when the stored version moved on.
	Update(ctx context.Context, att Attendance) error

	// ListInRange returns one employee's records with dates in [from, to].
	ListInRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]Attendance, error)

	// Delete removes a record. Only the regularization reconciler deletes
	// records, inside its transaction, to collapse duplicates.
	Delete(ctx context.Context, id string, companyID string) error

	// List retrieves records with filters and pagination.
	List(ctx context.Context, filter Filter, companyID string) ([]Attendance, int64, error)

	// LockApprovedInRange locks all approved, not yet locked records with
	// dates inside [from, to] and returns how many were locked.
	LockApprovedInRange(ctx context.Context, companyID string, from, to time.Time, lockedAt time.Time) (int64, error)
}
