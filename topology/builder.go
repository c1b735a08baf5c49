// Package topology turns a stream of triangles (as vertex triples, WKT or
// WKB) into the deduplicated vertex/index arrays and per-vertex normals a
// terrain tile is built from.
package topology

import (
	"math"
	"math/bits"

	"github.com/arl/assertgo"
	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/qmerr"
	"github.com/paulmach/orb"
)

// Vertex is a geographic triangle vertex: longitude, latitude in degrees
// and height in meters above the WGS84 ellipsoid.
type Vertex struct {
	Lon, Lat, Height float64
}

// Builder accumulates triangles and produces the deduplicated vertex/index
// arrays (and, when lighting is requested, per-vertex normals) a terrain
// tile is built from. The zero value is ready to use.
type Builder struct {
	// HasLighting requests area-weighted per-vertex normal computation in
	// Build.
	HasLighting bool

	// Autocorrect, when set, lets AddPolygon accept rings of more than
	// three vertices by collapsing them into triangles (see Autocorrect);
	// otherwise such a ring is rejected as GeometryInvalid.
	Autocorrect bool

	vertices  []Vertex
	cartesian []geo.Vec3
	faces     [][3]int
	lookup    map[vertexKey]int

	footprint orb.Bound
	hasExtent bool
}

// vertexKey bit-casts a vertex's three float64 components into a
// comparable struct, used to deduplicate vertices shared by adjacent
// triangles without the string-formatting `topology.py` relies on.
type vertexKey struct {
	lon, lat, h uint64
}

func newVertexKey(v Vertex) vertexKey {
	return vertexKey{
		lon: math.Float64bits(v.Lon),
		lat: math.Float64bits(v.Lat),
		h:   math.Float64bits(v.Height),
	}
}

// AddTriangle adds one triangle, given as its three vertices in any
// winding order. Vertices are reoriented counter-clockwise and deduped
// against vertices already seen.
func (b *Builder) AddTriangle(v0, v1, v2 Vertex) error {
	verts := assureCounterClockwise([3]Vertex{v0, v1, v2})

	var face [3]int
	for i, v := range verts {
		face[i] = b.indexOf(v)
	}
	b.faces = append(b.faces, face)
	return nil
}

// AddPolygon adds a ring of three or more vertices. A 3-vertex ring is
// added directly as one triangle. A longer ring is only accepted when
// b.Autocorrect is set, in which case it is collapsed into triangles by
// Autocorrect; otherwise it's rejected as a non-triangular geometry.
func (b *Builder) AddPolygon(points []Vertex) error {
	const op = "topology.AddPolygon"

	switch {
	case len(points) == 3:
		return b.AddTriangle(points[0], points[1], points[2])

	case len(points) < 3:
		return qmerr.New(op, qmerr.GeometryInvalid, "a ring must have at least 3 coordinates")

	case !b.Autocorrect:
		return qmerr.New(op, qmerr.GeometryInvalid,
			"non-triangular geometry given and autocorrect is disabled")
	}

	triangles, err := Autocorrect(points)
	if err != nil {
		return err
	}
	for _, tri := range triangles {
		if err := b.AddTriangle(tri[0], tri[1], tri[2]); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) indexOf(v Vertex) int {
	key := newVertexKey(v)
	if b.lookup == nil {
		b.lookup = make(map[vertexKey]int)
	}
	if idx, ok := b.lookup[key]; ok {
		return idx
	}

	idx := len(b.vertices)
	b.vertices = append(b.vertices, v)
	b.cartesian = append(b.cartesian, geo.LLHToECEF(v.Lon, v.Lat, v.Height))
	b.lookup[key] = idx

	p := orb.Point{v.Lon, v.Lat}
	if !b.hasExtent {
		b.footprint = orb.Bound{Min: p, Max: p}
		b.hasExtent = true
	} else {
		b.footprint = b.footprint.Extend(p)
	}

	return idx
}

// assureCounterClockwise sorts a triangle's vertices into a consistent
// winding order by angle around their centroid, the way topology.py's
// _assureCounterClockWise does.
func assureCounterClockwise(verts [3]Vertex) [3]Vertex {
	var mx, my float64
	for _, v := range verts {
		mx += v.Lon
		my += v.Lat
	}
	mx /= 3
	my /= 3

	angle := func(v Vertex) float64 {
		a := math.Atan2(v.Lon-mx, v.Lat-my) + 2*math.Pi
		return math.Mod(a, 2*math.Pi)
	}

	a0, a1, a2 := angle(verts[0]), angle(verts[1]), angle(verts[2])
	idx := [3]int{0, 1, 2}
	angles := [3]float64{a0, a1, a2}

	// Insertion sort descending, stable for the fixed 3-element case.
	for i := 1; i < 3; i++ {
		for j := i; j > 0 && angles[j] > angles[j-1]; j-- {
			angles[j], angles[j-1] = angles[j-1], angles[j]
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}

	return [3]Vertex{verts[idx[0]], verts[idx[1]], verts[idx[2]]}
}

// Built is the deduplicated vertex/index data a Builder produces.
type Built struct {
	Vertices  []Vertex
	Cartesian []geo.Vec3
	Indices   []uint32
	Normals   []geo.Vec3 // nil unless HasLighting was set

	MinLon, MaxLon       float64
	MinLat, MaxLat       float64
	MinHeight, MaxHeight float64
}

// Build finalizes the accumulated triangles into vertex/index arrays,
// optionally computing per-vertex normals.
func (b *Builder) Build() (Built, error) {
	if len(b.vertices) == 0 {
		return Built{}, qmerr.New("topology.Build", qmerr.GeometryInvalid,
			"no triangles were added")
	}

	indices := make([]uint32, 0, len(b.faces)*3)
	for _, f := range b.faces {
		indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}

	out := Built{
		Vertices:  b.vertices,
		Cartesian: b.cartesian,
		Indices:   indices,
	}

	out.MinLon, out.MaxLon = b.footprint.Min.Lon(), b.footprint.Max.Lon()
	out.MinLat, out.MaxLat = b.footprint.Min.Lat(), b.footprint.Max.Lat()

	out.MinHeight, out.MaxHeight = b.vertices[0].Height, b.vertices[0].Height
	for _, v := range b.vertices {
		if v.Height < out.MinHeight {
			out.MinHeight = v.Height
		}
		if v.Height > out.MaxHeight {
			out.MaxHeight = v.Height
		}
	}

	if b.HasLighting {
		out.Normals = computeNormals(b.cartesian, b.faces)
	}

	assert.True(bits.Len(uint(len(out.Vertices))) < 32, "vertex count overflows an index")
	return out, nil
}

// computeNormals returns one area-weighted unit normal per vertex, grounded
// on utils.py's computeNormals (in turn inspired by Cesium's
// GeometryPipeline.js computeNormal).
func computeNormals(vertices []geo.Vec3, faces [][3]int) []geo.Vec3 {
	faceNormals := make([]geo.Vec3, len(faces))
	faceAreas := make([]float64, len(faces))

	for i, f := range faces {
		v0, v1, v2 := vertices[f[0]], vertices[f[1]], vertices[f[2]]

		e1 := v1.Sub(v0)
		e2 := v2.Sub(v0)
		normal := e1.Cross(e2)
		faceAreas[i] = 0.5 * normal.Magnitude()

		centroid := v0.Add(v1).Add(v2).Scale(1.0 / 3.0)

		// Disambiguate winding the way the original does: pick whichever
		// of the two possible face normals points away from the tile's
		// interior, using the centroid-displaced viewpoint as a proxy.
		viewA := centroid.Add(normal)
		viewB := centroid.Add(normal.Scale(-1))
		if viewB.MagnitudeSquared() > viewA.MagnitudeSquared() {
			normal = normal.Scale(-1)
		}
		faceNormals[i] = normal
	}

	perVertex := make([]geo.Vec3, len(vertices))
	for i, f := range faces {
		weighted := faceNormals[i].Scale(faceAreas[i])
		for _, vi := range f {
			perVertex[vi] = perVertex[vi].Add(weighted)
		}
	}
	for i, n := range perVertex {
		perVertex[i] = n.Normalize()
	}
	return perVertex
}
