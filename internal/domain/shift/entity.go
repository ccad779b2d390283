package shift

// Weekday codes used in WorkingDays, Monday first.
var WeekdayCodes = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// Shift defines a working-time window. StartTime/EndTime are "HH:mm" in the
// company's local wall clock; a shift with EndTime before StartTime crosses
// midnight.
type Shift struct {
	ID                      string
	CompanyID               string
	Name                    string
	StartTime               string
	EndTime                 string
	GraceTimeIn             int
	WorkingDays             []string
	HalfDayThresholdMinutes int
	IsDefault               bool
	IsActive                bool
}

// WorksOn reports whether the weekday code is one of the shift's working days.
func (s *Shift) WorksOn(code string) bool {
	for _, d := range s.WorkingDays {
		if d == code {
			return true
		}
	}
	return false
}
