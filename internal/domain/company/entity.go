package company

// Settings is the subset of company configuration the attendance engine
// depends on.
type Settings struct {
	ID                       string
	Name                     string
	Timezone                 string
	GraceTimeMinutes         int
	OvertimeThresholdMinutes int
	RequireGpsTracking       bool
	IsActive                 bool
}

// DefaultOvertimeThresholdMinutes applies when a company has no explicit
// overtime threshold configured (8 hours).
const DefaultOvertimeThresholdMinutes = 480

// OvertimeThreshold returns the configured threshold or the default.
func (s Settings) OvertimeThreshold() int {
	if s.OvertimeThresholdMinutes > 0 {
		return s.OvertimeThresholdMinutes
	}
	return DefaultOvertimeThresholdMinutes
}

// OfficeLocation is a registered office with a circular geofence.
type OfficeLocation struct {
	ID           string
	CompanyID    string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	IsActive     bool
}
