package regularization

import (
	"time"
)

// Request statuses
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Request is an employee-submitted correction for a missing or wrong
// check-in/out. At most one PENDING request exists per (employee, date);
// a request transitions out of PENDING exactly once.
type Request struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	Date            time.Time
	CheckInTime     *time.Time
	CheckOutTime    *time.Time
	Reason          string
	Status          string
	ReviewedBy      *string
	ReviewedAt      *time.Time
	ReviewNote      *string
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
}
