package stitch

import (
	"testing"

	"github.com/arl/qmesh-tile/editable"
	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/terrain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cornerTile returns a one-square, two-triangle tile covering [west,
// east] x [south, north], with a vertex at each of the four corners and
// an upward-ish unit normal on each (so harmonizeNormals has something to
// average), grounded on test_tile_stitcher.py's multi-neighbor fixtures.
func cornerTile(west, south, east, north float64) *terrain.Tile {
	return &terrain.Tile{
		Header: terrain.Header{MinimumHeight: 0, MaximumHeight: 100},
		West:   west, South: south, East: east, North: north,
		U:       []uint16{0, 32767, 32767, 0},
		V:       []uint16{0, 0, 32767, 32767},
		H:       []uint16{0, 100, 200, 300},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
		VLight: []geo.Vec3{
			geo.NewVec3(0.1, 0, 1).Normalize(),
			geo.NewVec3(-0.1, 0.1, 1).Normalize(),
			geo.NewVec3(0, -0.1, 1).Normalize(),
			geo.NewVec3(0.05, 0.05, 1).Normalize(),
		},
	}
}

func TestStitchTogetherWithEastAndSouthNeighbors(t *testing.T) {
	center := editable.New(cornerTile(7.0, 46.0, 7.2, 46.2))
	east := editable.New(cornerTile(7.2, 46.0, 7.4, 46.2))
	south := editable.New(cornerTile(7.0, 45.8, 7.2, 46.0))

	s := New(center)
	require.NoError(t, s.AddNeighbor(east))
	require.NoError(t, s.AddNeighbor(south))

	require.NoError(t, s.StitchTogether())

	assert.Len(t, center.EdgeVertices(editable.East), len(east.EdgeVertices(editable.West)))
	assert.Len(t, center.EdgeVertices(editable.South), len(south.EdgeVertices(editable.North)))
}

func TestHarmonizeNormalsMatchesSharedVertices(t *testing.T) {
	center := editable.New(cornerTile(7.0, 46.0, 7.2, 46.2))
	east := editable.New(cornerTile(7.2, 46.0, 7.4, 46.2))

	s := New(center)
	require.NoError(t, s.AddNeighbor(east))
	require.NoError(t, s.StitchTogether())

	for _, c := range center.EdgeVertices(editable.East) {
		found := false
		for _, w := range east.EdgeVertices(editable.West) {
			_, clat, _ := center.LLH(int(c))
			_, wlat, _ := east.LLH(int(w))
			if clat == wlat {
				found = true
				assert.InDelta(t, 0, center.VLight[c].Distance(east.VLight[w]), 1e-9)
			}
		}
		assert.True(t, found, "no matching neighbor vertex for center edge vertex %d", c)
	}
}
