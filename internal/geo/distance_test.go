package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	addis := Point{Lat: 9.02, Lon: 38.75}

	assert.Equal(t, 0.0, HaversineKm(addis, addis))
	// 0.01 градуса по меридиану ~ 1.112 км
	assert.InDelta(t, 1.112, HaversineKm(addis, Point{Lat: 9.03, Lon: 38.75}), 0.002)
	// симметричность
	a, b := Point{Lat: 55.75, Lon: 37.61}, Point{Lat: 59.93, Lon: 30.33}
	assert.InDelta(t, HaversineKm(a, b), HaversineKm(b, a), 1e-9)
	assert.InDelta(t, 634, HaversineKm(a, b), 3)
}
