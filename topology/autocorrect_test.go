package topology

import (
	"testing"

	"github.com/arl/qmesh-tile/qmerr"
	"github.com/stretchr/testify/assert"
)

func TestAutocorrectSquare(t *testing.T) {
	square := []Vertex{
		{Lon: 0, Lat: 0, Height: 0},
		{Lon: 1, Lat: 0, Height: 0},
		{Lon: 1, Lat: 1, Height: 0},
		{Lon: 0, Lat: 1, Height: 0},
	}

	triangles, err := Autocorrect(square)
	assert.NoError(t, err)
	assert.Len(t, triangles, 2)

	seen := make(map[Vertex]bool)
	for _, tri := range triangles {
		for _, v := range tri {
			seen[v] = true
		}
	}
	for _, v := range square {
		assert.True(t, seen[v], "vertex %v should appear in some emitted triangle", v)
	}
}

func TestAutocorrectRejectsTooFewVertices(t *testing.T) {
	_, err := Autocorrect([]Vertex{{Lon: 0, Lat: 0, Height: 0}, {Lon: 1, Lat: 0, Height: 0}})
	assert.Error(t, err)
	assert.True(t, qmerr.Is(err, qmerr.GeometryInvalid))
}

func TestBuilderAddPolygonAutocorrect(t *testing.T) {
	b := Builder{Autocorrect: true}
	err := b.AddPolygon([]Vertex{
		{Lon: 0, Lat: 0, Height: 0},
		{Lon: 1, Lat: 0, Height: 0},
		{Lon: 1, Lat: 1, Height: 0},
		{Lon: 0, Lat: 1, Height: 0},
	})
	assert.NoError(t, err)

	built, err := b.Build()
	assert.NoError(t, err)
	assert.Len(t, built.Vertices, 4)
	assert.Len(t, built.Indices, 6)
}

func TestBuilderAddPolygonRejectsNonTriangleWithoutAutocorrect(t *testing.T) {
	var b Builder
	err := b.AddPolygon([]Vertex{
		{Lon: 0, Lat: 0, Height: 0},
		{Lon: 1, Lat: 0, Height: 0},
		{Lon: 1, Lat: 1, Height: 0},
		{Lon: 0, Lat: 1, Height: 0},
	})
	assert.Error(t, err)
	assert.True(t, qmerr.Is(err, qmerr.GeometryInvalid))
}
