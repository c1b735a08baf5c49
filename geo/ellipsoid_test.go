package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLHECEFRoundTrip(t *testing.T) {
	cases := []struct {
		lon, lat, h float64
	}{
		{0, 0, 0},
		{7.45, 46.95, 540},
		{-122.4194, 37.7749, 16},
		{179.9, -89.9, 8848},
	}

	for _, c := range cases {
		ecef := LLHToECEF(c.lon, c.lat, c.h)
		lon, lat, h := ECEFToLLH(ecef)
		assert.InDelta(t, c.lon, lon, 1e-6)
		assert.InDelta(t, c.lat, lat, 1e-6)
		assert.InDelta(t, c.h, h, 1e-3)
	}
}

func TestLLHToECEFEquator(t *testing.T) {
	v := LLHToECEF(0, 0, 0)
	assert.InDelta(t, RadiusX, v.X(), 1e-6)
	assert.InDelta(t, 0, v.Y(), 1e-6)
	assert.InDelta(t, 0, v.Z(), 1e-6)
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 0.0, Lerp(0, 10, 0))
	assert.Equal(t, 10.0, Lerp(0, 10, 1))
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
}
