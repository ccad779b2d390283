package regularization

import (
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/validator"
)

type CreateRequest struct {
	EmployeeID   string  `json:"-"`
	CompanyID    string  `json:"-"`
	Date         string  `json:"date"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Reason       string  `json:"reason"`
}

func (r CreateRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidDate(r.Date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}
	if r.CheckInTime == nil && r.CheckOutTime == nil {
		errs = append(errs, validator.ValidationError{Field: "check_in_time", Message: "at least one of check_in_time or check_out_time is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewRequest struct {
	ID        string `json:"-"`
	CompanyID string `json:"-"`
	ActorID   string `json:"-"`
	Note      string `json:"note"`
	Reason    string `json:"reason"`
}

type Response struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	Date            string  `json:"date"`
	CheckInTime     *string `json:"check_in_time"`
	CheckOutTime    *string `json:"check_out_time"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func ToResponse(r Request) Response {
	return Response{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		Date:            r.Date.Format("2006-01-02"),
		CheckInTime:     timePtrToString(r.CheckInTime),
		CheckOutTime:    timePtrToString(r.CheckOutTime),
		Reason:          r.Reason,
		Status:          r.Status,
		ReviewedBy:      r.ReviewedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// Filter for admin listing.
type Filter struct {
	EmployeeID *string
	Status     *string
	Page       int
	Limit      int
}
