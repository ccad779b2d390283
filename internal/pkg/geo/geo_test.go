package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistanceZero(t *testing.T) {
	d := HaversineDistance(-6.2, 106.8, -6.2, 106.8)
	assert.InDelta(t, 0, d, 0.001)
}

func TestHaversineDistanceKnownPoints(t *testing.T) {
	// Monas to Bundaran HI, central Jakarta, roughly 2.3 km apart.
	d := HaversineDistance(-6.1754, 106.8272, -6.1950, 106.8230)
	assert.InDelta(t, 2230, d, 150)
}

func TestHaversineDistanceSmallOffset(t *testing.T) {
	// ~0.001 degree latitude is about 111 meters.
	d := HaversineDistance(-6.2000, 106.8000, -6.2010, 106.8000)
	assert.InDelta(t, 111, d, 2)
}
