// Package editable wraps a terrain tile with vertex/triangle/height
// mutation operations that defer heavy rebuilds (height requantization,
// index compaction) until they're actually needed.
package editable

import (
	"math"

	"github.com/arl/assertgo"
	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/qmerr"
	"github.com/arl/qmesh-tile/terrain"
)

// Edge names a tile boundary.
type Edge int

const (
	West Edge = iota
	South
	East
	North
)

const maxQuantized = 32767.0

// Tile wraps a *terrain.Tile with editing operations. The zero value is
// not usable; construct with New.
type Tile struct {
	*terrain.Tile

	indexDirty     bool
	changedHeights []float64 // nil unless a height edit pushed the tile's range
}

// New wraps t for editing.
func New(t *terrain.Tile) *Tile {
	return &Tile{Tile: t}
}

// EdgeVertices returns the indices of every vertex lying exactly on the
// given edge, grounded on editable_terrain.py's get_edge_vertices.
func (t *Tile) EdgeVertices(edge Edge) []uint32 {
	var indices []uint32
	switch edge {
	case West:
		for i, u := range t.U {
			if u == 0 {
				indices = append(indices, uint32(i))
			}
		}
	case East:
		for i, u := range t.U {
			if u == maxQuantized {
				indices = append(indices, uint32(i))
			}
		}
	case South:
		for i, v := range t.V {
			if v == 0 {
				indices = append(indices, uint32(i))
			}
		}
	case North:
		for i, v := range t.V {
			if v == maxQuantized {
				indices = append(indices, uint32(i))
			}
		}
	}
	return indices
}

// SetNormal overwrites the unit normal at index, marking the tile's
// indices dirty so a later RebuildIndices recompacts the vertex arrays
// around the change.
func (t *Tile) SetNormal(index int, n geo.Vec3) {
	t.indexDirty = true
	t.VLight[index] = n
}

// SetHeight sets the height (in meters) of vertex index. If height falls
// within the tile's current [minimumHeight, maximumHeight] range and no
// other height edit is pending, the new value is quantized immediately;
// otherwise it's deferred to RebuildHeights, which requantizes every
// vertex against the new range.
func (t *Tile) SetHeight(index int, height float64) {
	outOfRange := height < float64(t.Header.MinimumHeight) || height > float64(t.Header.MaximumHeight)

	if outOfRange || t.changedHeights != nil {
		if t.changedHeights == nil {
			t.changedHeights = make([]float64, len(t.H))
			for i, h := range t.H {
				t.changedHeights[i] = t.dequantizeHeight(h)
			}
		}
		t.changedHeights[index] = height
		return
	}

	t.H[index] = t.quantizeHeight(height)
}

// Height returns the dequantized height (meters) of vertex index.
func (t *Tile) Height(index int) float64 {
	return t.dequantizeHeight(t.H[index])
}

// LLH returns the dequantized longitude/latitude/height of vertex index.
func (t *Tile) LLH(index int) (lon, lat, height float64) {
	lon = geo.Lerp(t.West, t.East, float64(t.U[index])/maxQuantized)
	lat = geo.Lerp(t.South, t.North, float64(t.V[index])/maxQuantized)
	height = t.Height(index)
	return
}

// Triangle returns the vertex-index triple of the triangle at index.
func (t *Tile) Triangle(index int) (v0, v1, v2 uint32) {
	off := index * 3
	return t.Indices[off], t.Indices[off+1], t.Indices[off+2]
}

// FindTriangleWithEdge returns the index of the triangle containing both
// vertexPrev and vertexNext, or -1 if none does.
func (t *Tile) FindTriangleWithEdge(vertexPrev, vertexNext uint32) int {
	for i := 0; i+2 < len(t.Indices); i += 3 {
		v0, v1, v2 := t.Indices[i], t.Indices[i+1], t.Indices[i+2]
		hasPrev := v0 == vertexPrev || v1 == vertexPrev || v2 == vertexPrev
		hasNext := v0 == vertexNext || v1 == vertexNext || v2 == vertexNext
		if hasPrev && hasNext {
			return i / 3
		}
	}
	return -1
}

// TrianglesContaining returns every triangle (as a vertex-index triple)
// that references vertex.
func (t *Tile) TrianglesContaining(vertex uint32) [][3]uint32 {
	var out [][3]uint32
	for i := 0; i+2 < len(t.Indices); i += 3 {
		v0, v1, v2 := t.Indices[i], t.Indices[i+1], t.Indices[i+2]
		if v0 == vertex || v1 == vertex || v2 == vertex {
			out = append(out, [3]uint32{v0, v1, v2})
		}
	}
	return out
}

// WeightedNormalsFor returns one area-weighted (unnormalized) normal per
// triangle in triangles, grounded on editable_terrain.py's
// calculate_weighted_normals_for.
func (t *Tile) WeightedNormalsFor(triangles [][3]uint32) []geo.Vec3 {
	out := make([]geo.Vec3, len(triangles))
	for i, tri := range triangles {
		lon0, lat0, h0 := t.LLH(int(tri[0]))
		lon1, lat1, h1 := t.LLH(int(tri[1]))
		lon2, lat2, h2 := t.LLH(int(tri[2]))

		v0 := geo.LLHToECEF(lon0, lat0, h0)
		v1 := geo.LLHToECEF(lon1, lat1, h1)
		v2 := geo.LLHToECEF(lon2, lat2, h2)

		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		area := 0.5 * normal.Magnitude()
		out[i] = normal.Scale(area)
	}
	return out
}

// SplitTriangle splits the triangle at triangleIndex by inserting a new
// vertex at (lon, lat, height) in place of vertexNext on one half and
// vertexPrev on the other, the way a tile stitcher introduces a shared
// vertex along a broken edge. It returns the new vertex's index.
func (t *Tile) SplitTriangle(triangleIndex int, vertexPrev, vertexNext uint32, lon, lat, height float64) uint32 {
	t.indexDirty = true

	u := t.quantizeLongitude(lon)
	v := t.quantizeLatitude(lat)
	t.U = append(t.U, u)
	t.V = append(t.V, v)
	newIndex := uint32(len(t.U) - 1)

	if height > float64(t.Header.MinimumHeight) && height < float64(t.Header.MaximumHeight) {
		if t.changedHeights != nil {
			t.changedHeights = append(t.changedHeights, height)
		}
		t.H = append(t.H, t.quantizeHeight(height))
	} else {
		if t.changedHeights == nil {
			t.changedHeights = make([]float64, len(t.H))
			for i, h := range t.H {
				t.changedHeights[i] = t.dequantizeHeight(h)
			}
		}
		t.changedHeights = append(t.changedHeights, height)
		t.H = append(t.H, 0)
	}

	if len(t.VLight) > 0 {
		t.VLight = append(t.VLight, geo.Vec3{})
	}

	off := triangleIndex * 3
	oldTriangle := [3]uint32{t.Indices[off], t.Indices[off+1], t.Indices[off+2]}
	newTriangle := oldTriangle

	nextOffset := indexOf(oldTriangle, vertexNext)
	assert.True(nextOffset >= 0, "vertexNext must belong to the split triangle")
	oldTriangle[nextOffset] = newIndex
	t.Indices[off+nextOffset] = newIndex

	prevOffset := indexOf(newTriangle, vertexPrev)
	assert.True(prevOffset >= 0, "vertexPrev must belong to the split triangle")
	newTriangle[prevOffset] = newIndex

	t.Indices = append(t.Indices, newTriangle[0], newTriangle[1], newTriangle[2])

	return newIndex
}

func indexOf(triangle [3]uint32, v uint32) int {
	for i, x := range triangle {
		if x == v {
			return i
		}
	}
	return -1
}

// RebuildHeights requantizes every vertex's height against the
// accumulated range of every SetHeight/SplitTriangle call since the tile
// was loaded, updating the header's min/max height. A no-op if no height
// edit is pending.
func (t *Tile) RebuildHeights() {
	if t.changedHeights == nil {
		return
	}

	newMin, newMax := t.changedHeights[0], t.changedHeights[0]
	for _, h := range t.changedHeights {
		if h < newMin {
			newMin = h
		}
		if h > newMax {
			newMax = h
		}
	}

	deniv := newMax - newMin
	for i, h := range t.changedHeights {
		var q float64
		if deniv != 0 {
			q = math.Round((h - newMin) / deniv * maxQuantized)
		}
		if q < 0 {
			q = 0
		}
		if q > maxQuantized {
			q = maxQuantized
		}
		t.H[i] = uint16(q)
	}

	t.Header.MinimumHeight = float32(newMin)
	t.Header.MaximumHeight = float32(newMax)
	t.changedHeights = nil
}

// RebuildIndices compacts the vertex arrays down to only the vertices
// reachable from the index array, remapping indices and edge-vertex lists
// in the process. Required after SplitTriangle/SetNormal introduce
// vertices or triangles that may no longer be referenced in index order.
func (t *Tile) RebuildIndices() error {
	const op = "editable.RebuildIndices"

	if !t.indexDirty {
		return nil
	}

	indexMap := make(map[uint32]uint32, len(t.U))
	var newU, newV, newH []uint16
	var newVLight []geo.Vec3
	var newChangedHeights []float64
	newIndices := make([]uint32, len(t.Indices))

	for i, old := range t.Indices {
		newIdx, ok := indexMap[old]
		if !ok {
			newIdx = uint32(len(newU))
			indexMap[old] = newIdx

			newU = append(newU, t.U[old])
			newV = append(newV, t.V[old])
			newH = append(newH, t.H[old])
			if len(t.VLight) > 0 {
				newVLight = append(newVLight, t.VLight[old])
			}
			if t.changedHeights != nil {
				newChangedHeights = append(newChangedHeights, t.changedHeights[old])
			}
		}
		newIndices[i] = newIdx
	}

	if len(newIndices) != len(t.Indices) {
		return qmerr.New(op, qmerr.InvariantViolation, "index array size changed during rebuild")
	}

	t.Indices = newIndices
	t.U = newU
	t.V = newV
	t.H = newH
	if len(t.VLight) > 0 {
		t.VLight = newVLight
	}
	if t.changedHeights != nil {
		t.changedHeights = newChangedHeights
	}

	t.WestIndices = t.EdgeVertices(West)
	t.SouthIndices = t.EdgeVertices(South)
	t.EastIndices = t.EdgeVertices(East)
	t.NorthIndices = t.EdgeVertices(North)

	t.indexDirty = false
	return nil
}

func (t *Tile) quantizeLongitude(lon float64) uint16 {
	bLon := maxQuantized / (t.East - t.West)
	return uint16(math.Round((lon - t.West) * bLon))
}

func (t *Tile) quantizeLatitude(lat float64) uint16 {
	bLat := maxQuantized / (t.North - t.South)
	return uint16(math.Round((lat - t.South) * bLat))
}

func (t *Tile) quantizeHeight(height float64) uint16 {
	deniv := float64(t.Header.MaximumHeight) - float64(t.Header.MinimumHeight)
	if deniv == 0 {
		return 0
	}
	bHeight := maxQuantized / deniv
	return uint16(math.Round((height - float64(t.Header.MinimumHeight)) * bHeight))
}

func (t *Tile) dequantizeHeight(h uint16) float64 {
	return geo.Lerp(float64(t.Header.MinimumHeight), float64(t.Header.MaximumHeight), float64(h)/maxQuantized)
}
