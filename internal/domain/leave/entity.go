package leave

import "time"

// Leave is an approved leave span. Only approved leave is visible through
// this directory; the request workflow lives elsewhere.
type Leave struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Type       string
	StartDate  time.Time
	EndDate    time.Time
}

// Holiday is a company-observed holiday.
type Holiday struct {
	ID        string
	CompanyID string
	Name      string
	Date      time.Time
}
