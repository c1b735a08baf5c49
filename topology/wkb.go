package topology

import (
	"encoding/binary"
	"math"

	"github.com/arl/qmesh-tile/qmerr"
)

const (
	wkbPolygon     = 3
	wkbPolygonZISO = 1003
	wkbZFlagEWKB   = 0x80000000
)

// VerticesFromWKB parses a binary-encoded 3D polygon (ISO WKB PolygonZ,
// type 1003, or EWKB's Z-flagged Polygon, type 3|0x80000000) describing a
// single triangular ring, and returns its three vertices.
//
// Like VerticesFromWKT, this is hand-rolled: no pure-Go WKB-Z parser
// appears anywhere in the example pack, and orb's geometry types have no Z
// channel to parse into.
func VerticesFromWKB(data []byte) ([3]Vertex, error) {
	const op = "topology.VerticesFromWKB"

	points, err := RingFromWKB(data)
	if err != nil {
		return [3]Vertex{}, err
	}
	if len(points) != 3 {
		return [3]Vertex{}, qmerr.New(op, qmerr.GeometryInvalid,
			"a ring must have exactly 3 coordinates")
	}
	return [3]Vertex{points[0], points[1], points[2]}, nil
}

// RingFromWKB parses the same binary geometry as VerticesFromWKB but
// returns the full ring (closing vertex dropped), for callers that accept
// non-triangular rings via Builder.AddPolygon's autocorrect path.
func RingFromWKB(data []byte) ([]Vertex, error) {
	const op = "topology.RingFromWKB"

	if len(data) < 1 {
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "empty WKB buffer")
	}

	var order binary.ByteOrder
	switch data[0] {
	case 0:
		order = binary.BigEndian
	case 1:
		order = binary.LittleEndian
	default:
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "invalid WKB byte order marker")
	}
	off := 1

	if len(data) < off+4 {
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "truncated WKB geometry type")
	}
	geomType := order.Uint32(data[off : off+4])
	off += 4

	hasZ := false
	switch {
	case geomType == wkbPolygonZISO:
		hasZ = true
	case geomType == wkbPolygon:
		hasZ = false
	case geomType&wkbZFlagEWKB != 0 && geomType&0xff == wkbPolygon:
		hasZ = true
	default:
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "not a polygon geometry")
	}
	if !hasZ {
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "polygon has no Z coordinate")
	}

	readU32 := func() (uint32, error) {
		if len(data) < off+4 {
			return 0, qmerr.New(op, qmerr.GeometryInvalid, "truncated WKB buffer")
		}
		v := order.Uint32(data[off : off+4])
		off += 4
		return v, nil
	}
	readF64 := func() (float64, error) {
		if len(data) < off+8 {
			return 0, qmerr.New(op, qmerr.GeometryInvalid, "truncated WKB buffer")
		}
		bits := order.Uint64(data[off : off+8])
		off += 8
		return math.Float64frombits(bits), nil
	}

	numRings, err := readU32()
	if err != nil {
		return nil, err
	}
	if numRings != 1 {
		return nil, qmerr.New(op, qmerr.GeometryInvalid,
			"only single-ring polygons are supported")
	}

	numPoints, err := readU32()
	if err != nil {
		return nil, err
	}

	var points []Vertex
	for i := uint32(0); i < numPoints; i++ {
		lon, err := readF64()
		if err != nil {
			return nil, err
		}
		lat, err := readF64()
		if err != nil {
			return nil, err
		}
		h, err := readF64()
		if err != nil {
			return nil, err
		}
		points = append(points, Vertex{Lon: lon, Lat: lat, Height: h})
	}

	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	if len(points) < 3 {
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "a ring must have at least 3 coordinates")
	}

	return points, nil
}
