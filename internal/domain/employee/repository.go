package employee

import (
	"context"
	"errors"
)

var ErrEmployeeNotFound = errors.New("employee not found")

// Repository is the read-only employee directory.
type Repository interface {
	// FindActive retrieves an active employee belonging to the company.
	// Returns ErrEmployeeNotFound for unknown, inactive or cross-company IDs.
	FindActive(ctx context.Context, employeeID string, companyID string) (Employee, error)

	// ListActiveOnShift returns active employees with active user accounts
	// whose effective shift is the given one. A nil shiftID selects
	// employees without an assigned shift (company-default users).
	ListActiveOnShift(ctx context.Context, companyID string, shiftID *string) ([]Employee, error)

	// CountActive returns the number of active employees in the company.
	CountActive(ctx context.Context, companyID string) (int, error)
}
