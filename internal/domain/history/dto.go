package history

import (
	"time"
)

// StatusCounts are raw per-status record counts for a date range.
type StatusCounts struct {
	Present int
	HalfDay int
	Absent  int
	OnLeave int
}

// Summary is the rollup returned to dashboards. Late is computed dynamically
// from check-in times against shift starts, not read from stored statuses.
// CalculatedAbsent bridges days with no record at all.
type Summary struct {
	Present          int `json:"present"`
	HalfDay          int `json:"half_day"`
	Absent           int `json:"absent"`
	OnLeave          int `json:"on_leave"`
	Late             int `json:"late"`
	CalculatedAbsent int `json:"calculated_absent"`
}

// SummaryFilter selects the summary scope.
type SummaryFilter struct {
	From time.Time
	To   time.Time
}

// RecordRow is a record joined with the employee's shift assignment, enough
// to re-derive lateness without trusting the stored status.
type RecordRow struct {
	AttendanceID string
	EmployeeID   string
	Date         time.Time
	CheckInTime  *time.Time
	Status       string
	ShiftID      *string
}
