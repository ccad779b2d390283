package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/domain/company"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/geo"
)

func TestGeofence_WithinAny(t *testing.T) {
	v := GeofenceValidator{}
	office := company.OfficeLocation{
		ID: "loc-1", Latitude: -6.2088, Longitude: 106.8456, RadiusMeters: 100,
	}

	t.Run("no offices means not enforced", func(t *testing.T) {
		assert.True(t, v.WithinAny(0, 0, nil))
	})

	t.Run("inside radius", func(t *testing.T) {
		assert.True(t, v.WithinAny(-6.2088, 106.8456, []company.OfficeLocation{office}))
	})

	t.Run("far outside radius", func(t *testing.T) {
		assert.False(t, v.WithinAny(-6.3000, 106.9000, []company.OfficeLocation{office}))
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		// Walk north until the haversine distance is just at/over 100m and
		// check both sides of the boundary.
		lat := office.Latitude + 0.0009 // ~99.6m
		d := geo.HaversineDistance(lat, office.Longitude, office.Latitude, office.Longitude)
		assert.LessOrEqual(t, d, 100.0)
		assert.True(t, v.WithinAny(lat, office.Longitude, []company.OfficeLocation{office}))

		latOut := office.Latitude + 0.00095 // ~105m
		dOut := geo.HaversineDistance(latOut, office.Longitude, office.Latitude, office.Longitude)
		assert.Greater(t, dOut, 100.0)
		assert.False(t, v.WithinAny(latOut, office.Longitude, []company.OfficeLocation{office}))
	})

	t.Run("any office qualifies", func(t *testing.T) {
		far := company.OfficeLocation{ID: "loc-2", Latitude: -7.0, Longitude: 107.0, RadiusMeters: 50}
		offices := []company.OfficeLocation{far, office}
		assert.True(t, v.WithinAny(-6.2088, 106.8456, offices))
	})
}
