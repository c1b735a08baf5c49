package terrain

import (
	"testing"

	"github.com/arl/qmesh-tile/topology"
	"github.com/stretchr/testify/assert"
)

func TestFromTopology(t *testing.T) {
	var b topology.Builder
	b.HasLighting = true
	assert.NoError(t, b.AddTriangle(
		topology.Vertex{Lon: 7.0, Lat: 46.0, Height: 500},
		topology.Vertex{Lon: 7.1, Lat: 46.0, Height: 510},
		topology.Vertex{Lon: 7.0, Lat: 46.1, Height: 520},
	))

	built, err := b.Build()
	assert.NoError(t, err)

	tile, err := FromTopology(built, nil)
	assert.NoError(t, err)

	assert.Equal(t, 7.0, tile.West)
	assert.Equal(t, 7.1, tile.East)
	assert.Equal(t, 46.0, tile.South)
	assert.Equal(t, 46.1, tile.North)
	assert.Len(t, tile.U, 3)
	assert.Len(t, tile.VLight, 3)
	assert.NotEmpty(t, tile.WestIndices)
	assert.NotEmpty(t, tile.SouthIndices)

	assert.InDelta(t, 500, tile.Header.MinimumHeight, 1e-6)
	assert.InDelta(t, 520, tile.Header.MaximumHeight, 1e-6)
}

func TestFromTopologyWithExplicitExtent(t *testing.T) {
	var b topology.Builder
	assert.NoError(t, b.AddTriangle(
		topology.Vertex{Lon: 7.0, Lat: 46.0, Height: 500},
		topology.Vertex{Lon: 7.1, Lat: 46.0, Height: 510},
		topology.Vertex{Lon: 7.0, Lat: 46.1, Height: 520},
	))
	built, err := b.Build()
	assert.NoError(t, err)

	tile, err := FromTopology(built, &Extent{West: 7.0, South: 46.0, East: 7.2, North: 46.2})
	assert.NoError(t, err)
	assert.Equal(t, 7.2, tile.East)
	assert.Equal(t, 46.2, tile.North)
}

func TestFromTopologyRejectsEmpty(t *testing.T) {
	_, err := FromTopology(topology.Built{}, nil)
	assert.Error(t, err)
}
