package attendance

import (
	"time"
)

// Attendance statuses
const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusHalfDay = "HALF_DAY"
	StatusOnLeave = "ON_LEAVE"
)

// Attendance types
const (
	TypeOffice = "OFFICE"
	TypeRemote = "REMOTE"
	TypeField  = "FIELD"
)

// Break is one interval in a record's break sequence. At most the last
// element of the sequence may have End == nil (an open break).
type Break struct {
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end"`
	DurationMinutes int        `json:"duration_minutes"`
}

// Attendance is the per-employee-per-day record. Date is midnight in the
// company's timezone and (EmployeeID, Date) is unique.
type Attendance struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time

	CheckInTime    *time.Time
	CheckInLat     *float64
	CheckInLng     *float64
	CheckInIP      *string
	CheckInDevice  *string
	CheckInNote    *string
	CheckOutTime   *time.Time
	CheckOutLat    *float64
	CheckOutLng    *float64
	CheckOutIP     *string
	CheckOutDevice *string
	CheckOutNote   *string

	Status       string
	Type         string
	WorkLocation *string

	Breaks            []Break
	TotalBreakMinutes int
	TotalWorkMinutes  int
	LateMinutes       int
	OvertimeMinutes   int
	EarlyLeaveMinutes int

	IsManualEntry bool
	ManualReason  *string

	IsApproved bool
	ApprovedBy *string
	ApprovedAt *time.Time

	IsLocked bool
	LockedAt *time.Time

	// Version guards read-modify-write updates (check-out, breaks) with
	// optimistic concurrency. Incremented by the repository on every update.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
	ShiftID      *string
}

// OpenBreak returns the trailing open interval, or nil when no break is open.
func (a *Attendance) OpenBreak() *Break {
	if len(a.Breaks) == 0 {
		return nil
	}
	last := &a.Breaks[len(a.Breaks)-1]
	if last.End == nil {
		return last
	}
	return nil
}

// SumBreakMinutes totals the durations of all closed intervals.
func (a *Attendance) SumBreakMinutes() int {
	total := 0
	for _, b := range a.Breaks {
		if b.End != nil {
			total += b.DurationMinutes
		}
	}
	return total
}
