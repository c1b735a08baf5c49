package geodetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTileBoundsZ0TwoTiles(t *testing.T) {
	west, south, east, north := TileBounds(Geodetic2TilesAtZ0, 0, 0, 0)
	assert.InDelta(t, -180, west, 1e-9)
	assert.InDelta(t, -90, south, 1e-9)
	assert.InDelta(t, 0, east, 1e-9)
	assert.InDelta(t, 90, north, 1e-9)

	west, south, east, north = TileBounds(Geodetic2TilesAtZ0, 0, 1, 0)
	assert.InDelta(t, 0, west, 1e-9)
	assert.InDelta(t, -90, south, 1e-9)
	assert.InDelta(t, 180, east, 1e-9)
	assert.InDelta(t, 90, north, 1e-9)
}

func TestTileBoundsZ0OneTile(t *testing.T) {
	west, south, east, north := TileBounds(Geodetic1TileAtZ0, 0, 0, 0)
	assert.InDelta(t, -180, west, 1e-9)
	assert.InDelta(t, -90, south, 1e-9)
	assert.InDelta(t, 180, east, 1e-9)
	assert.InDelta(t, 270, north, 1e-9)
}

func TestTilesAtZoom(t *testing.T) {
	x, y := TilesAtZoom(Geodetic2TilesAtZ0, 0)
	assert.Equal(t, 2, x)
	assert.Equal(t, 1, y)

	x, y = TilesAtZoom(Geodetic2TilesAtZ0, 3)
	assert.Equal(t, 16, x)
	assert.Equal(t, 8, y)
}

func TestLonLatToTileRoundTrip(t *testing.T) {
	west, south, east, north := TileBounds(Geodetic2TilesAtZ0, 9, 533, 383)
	midLon := (west + east) / 2
	midLat := (south + north) / 2

	tx, ty := LonLatToTile(Geodetic2TilesAtZ0, defaultTileSize, midLon, midLat, 9)
	assert.Equal(t, 533, tx)
	assert.Equal(t, 383, ty)
}
