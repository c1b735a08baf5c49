// Package terrain implements the quantized-mesh tile entity: its header,
// quantized vertex/index arrays, edge-vertex lists and optional extensions,
// plus the binary codec that reads and writes them.
package terrain

import "github.com/arl/qmesh-tile/geo"

// maxQuantized is the largest value a quantized u/v/h coordinate can take:
// 2^15 - 1, the range of a signed 16-bit integer.
const maxQuantized = 32767.0

// wideIndexThreshold is the vertex count above which triangle and edge
// indices are written as 32-bit rather than 16-bit values.
const wideIndexThreshold = 65536

// tilePixels is the full watermask's sample count: 256x256 samples, one
// Watermask byte per pixel of a 256x256 tile.
const tilePixels = 65536

// Header carries the tile's bounding geometry: the ECEF center, the
// height range, the bounding sphere, and the horizon occlusion point.
type Header struct {
	CenterX, CenterY, CenterZ float64
	MinimumHeight             float32
	MaximumHeight             float32
	BoundingSphereCenterX     float64
	BoundingSphereCenterY     float64
	BoundingSphereCenterZ     float64
	BoundingSphereRadius      float64
	HorizonOcclusionPointX    float64
	HorizonOcclusionPointY    float64
	HorizonOcclusionPointZ    float64
}

// Tile is a quantized-mesh terrain tile: a triangle mesh whose vertex
// positions are quantized to the [0, 32767] range relative to the tile's
// geographic extent and height range, plus the edge-vertex lists neighbor
// tiles stitch against and the optional lighting/watermask extensions.
type Tile struct {
	Header Header

	// West, East, South, North are the tile's geographic extent in
	// degrees, used to dequantize U/V into longitude/latitude.
	West, East, South, North float64

	U, V, H []uint16
	Indices []uint32

	WestIndices, SouthIndices, EastIndices, NorthIndices []uint32

	// VLight holds one unit normal per vertex (oct-encoded on the wire),
	// set when the octvertexnormals extension is present.
	VLight []geo.Vec3

	// Watermask holds 256 rows of 256 samples (0: water, 255: land, or
	// any single value when the tile is uniformly one or the other), set
	// when the watermask extension is present.
	Watermask [][]uint8
}

// HasLighting reports whether the tile carries the octvertexnormals
// extension.
func (t *Tile) HasLighting() bool { return len(t.VLight) > 0 }

// HasWatermask reports whether the tile carries the watermask extension.
func (t *Tile) HasWatermask() bool { return len(t.Watermask) > 0 }

// ContentType returns the tile's MIME content type, reflecting which
// extensions it carries.
func (t *Tile) ContentType() string {
	const base = "application/vnd.quantized-mesh"
	switch {
	case t.HasLighting() && t.HasWatermask():
		return base + ";extensions=octvertexnormals-watermask"
	case t.HasLighting():
		return base + ";extensions=octvertexnormals"
	case t.HasWatermask():
		return base + ";extensions=watermask"
	default:
		return base
	}
}

// Coordinate is a dequantized tile vertex: longitude, latitude in degrees
// and height in meters.
type Coordinate struct {
	Lon, Lat, Height float64
}

// Coordinates dequantizes every vertex back to geographic space using the
// tile's extent and height range.
func (t *Tile) Coordinates() []Coordinate {
	out := make([]Coordinate, len(t.U))
	for i := range t.U {
		out[i] = Coordinate{
			Lon:    geo.Lerp(t.West, t.East, float64(t.U[i])/maxQuantized),
			Lat:    geo.Lerp(t.South, t.North, float64(t.V[i])/maxQuantized),
			Height: geo.Lerp(float64(t.Header.MinimumHeight), float64(t.Header.MaximumHeight), float64(t.H[i])/maxQuantized),
		}
	}
	return out
}

func (t *Tile) usesWideIndices() bool {
	return len(t.U) > wideIndexThreshold
}
