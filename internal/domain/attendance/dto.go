package attendance

import (
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/validator"
)

// Location is a reported GPS point.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CheckInRequest struct {
	EmployeeID   string    `json:"-"`
	CompanyID    string    `json:"-"`
	Type         string    `json:"type"`
	WorkLocation *string   `json:"work_location"`
	Location     *Location `json:"location"`
	Note         *string   `json:"note"`
	IPAddress    *string   `json:"-"`
	DeviceInfo   *string   `json:"device_info"`
}

func (r CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "company_id is required"})
	}
	if r.Type != "" && r.Type != TypeOffice && r.Type != TypeRemote && r.Type != TypeField {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be OFFICE, REMOTE or FIELD"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	EmployeeID string    `json:"-"`
	CompanyID  string    `json:"-"`
	Location   *Location `json:"location"`
	Note       *string   `json:"note"`
	IPAddress  *string   `json:"-"`
	DeviceInfo *string   `json:"device_info"`
}

type CheckInResponse struct {
	RecordID    string `json:"record_id"`
	CheckInTime string `json:"check_in_time"`
	Status      string `json:"status"`
	LateMinutes int    `json:"late_minutes"`
}

type CheckOutResponse struct {
	RecordID         string `json:"record_id"`
	CheckInTime      string `json:"check_in_time"`
	CheckOutTime     string `json:"check_out_time"`
	TotalWorkMinutes int    `json:"total_work_minutes"`
	OvertimeMinutes  int    `json:"overtime_minutes"`
	Status           string `json:"status"`
}

type EndBreakResponse struct {
	DurationMinutes   int `json:"duration_minutes"`
	TotalBreakMinutes int `json:"total_break_minutes"`
}

type ManualEntryRequest struct {
	EmployeeID   string  `json:"employee_id"`
	Date         string  `json:"date"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	Status       *string `json:"status"`
	Type         *string `json:"type"`
	Reason       string  `json:"reason"`
}

func (r ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsValidDate(r.Date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}
	if r.Status != nil {
		switch *r.Status {
		case StatusPresent, StatusAbsent, StatusHalfDay, StatusOnLeave:
		default:
			errs = append(errs, validator.ValidationError{Field: "status", Message: "invalid status"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkLockRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r BulkLockRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidDate(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
	}
	if !validator.IsValidDate(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkLockResponse struct {
	LockedCount int64 `json:"locked_count"`
}

type TodayStatusResponse struct {
	Attendance *AttendanceResponse `json:"attendance,omitempty"`
	Holiday    *string             `json:"holiday,omitempty"`
	IsWeekend  bool                `json:"is_weekend"`
	OnLeave    bool                `json:"on_leave"`
}

// AttendanceResponse is the serialized record shape shared by today-status,
// manual entry and listing endpoints.
type AttendanceResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	EmployeeName      *string  `json:"employee_name,omitempty"`
	Date              string   `json:"date"`
	CheckInTime       *string  `json:"check_in_time"`
	CheckOutTime      *string  `json:"check_out_time"`
	Status            string   `json:"status"`
	Type              string   `json:"type"`
	WorkLocation      *string  `json:"work_location,omitempty"`
	Breaks            []Break  `json:"breaks,omitempty"`
	TotalBreakMinutes int      `json:"total_break_minutes"`
	TotalWorkMinutes  int      `json:"total_work_minutes"`
	LateMinutes       int      `json:"late_minutes"`
	OvertimeMinutes   int      `json:"overtime_minutes"`
	EarlyLeaveMinutes int      `json:"early_leave_minutes"`
	IsManualEntry     bool     `json:"is_manual_entry"`
	IsApproved        bool     `json:"is_approved"`
	IsLocked          bool     `json:"is_locked"`
}

// ToResponse maps an entity to its response shape.
func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeName:      a.EmployeeName,
		Date:              a.Date.Format("2006-01-02"),
		CheckInTime:       timePtrToString(a.CheckInTime),
		CheckOutTime:      timePtrToString(a.CheckOutTime),
		Status:            a.Status,
		Type:              a.Type,
		WorkLocation:      a.WorkLocation,
		Breaks:            a.Breaks,
		TotalBreakMinutes: a.TotalBreakMinutes,
		TotalWorkMinutes:  a.TotalWorkMinutes,
		LateMinutes:       a.LateMinutes,
		OvertimeMinutes:   a.OvertimeMinutes,
		EarlyLeaveMinutes: a.EarlyLeaveMinutes,
		IsManualEntry:     a.IsManualEntry,
		IsApproved:        a.IsApproved,
		IsLocked:          a.IsLocked,
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
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}
