package attendance

import (
	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/company"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/geo"
)

// GeofenceValidator checks reported coordinates against a company's
// registered office geofences.
type GeofenceValidator struct{}

// WithinAny reports whether the point lies inside at least one office radius.
// Boundary-inclusive: a point exactly at the radius passes. No offices
// configured means geofencing is not enforced and everything passes.
func (GeofenceValidator) WithinAny(lat, lng float64, offices []company.OfficeLocation) bool {
	if len(offices) == 0 {
		return true
	}
	for _, office := range offices {
		distance := geo.HaversineDistance(lat, lng, office.Latitude, office.Longitude)
		if distance <= office.RadiusMeters {
			return true
		}
	}
	return false
}
