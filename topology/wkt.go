package topology

import (
	"strconv"
	"strings"

	"github.com/arl/qmesh-tile/qmerr"
)

// VerticesFromWKT parses a "POLYGON Z ((lon lat h, lon lat h, ...))"
// triangle and returns its three vertices in the order they appear. A
// tuple may leave out h only when the geometry tag carries Z, and its
// height is then 0; a 2D "POLYGON ((lon lat, ...))" is rejected as
// GeometryInvalid.
//
// orb's own geometry types (Polygon, Ring) carry no Z coordinate, so they
// can't represent the height channel a quantized-mesh vertex needs; this
// parser is hand-rolled for that reason, documented in DESIGN.md.
func VerticesFromWKT(s string) ([3]Vertex, error) {
	const op = "topology.VerticesFromWKT"

	points, err := RingFromWKT(s)
	if err != nil {
		return [3]Vertex{}, err
	}
	if len(points) != 3 {
		return [3]Vertex{}, qmerr.New(op, qmerr.GeometryInvalid,
			"a ring must have exactly 3 coordinates")
	}
	return [3]Vertex{points[0], points[1], points[2]}, nil
}

// RingFromWKT parses the same "POLYGON Z (...)" text as VerticesFromWKT but
// returns the full ring (closing vertex dropped), for callers that accept
// non-triangular rings via Builder.AddPolygon's autocorrect path.
func RingFromWKT(s string) ([]Vertex, error) {
	const op = "topology.RingFromWKT"

	open := strings.IndexByte(s, '(')
	if open < 0 {
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "missing opening parenthesis")
	}
	close := strings.LastIndexByte(s, ')')
	if close < 0 || close < open {
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "missing closing parenthesis")
	}

	inner := s[open+1 : close]
	inner = strings.TrimSpace(inner)
	inner = strings.Trim(inner, "()")

	rawPoints := strings.Split(inner, ",")
	var points []Vertex
	for _, raw := range rawPoints {
		fields := strings.Fields(strings.TrimSpace(raw))
		if len(fields) < 2 {
			return nil, qmerr.New(op, qmerr.GeometryInvalid, "malformed coordinate tuple: "+raw)
		}
		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, qmerr.Wrap(op, qmerr.GeometryInvalid, err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, qmerr.Wrap(op, qmerr.GeometryInvalid, err)
		}
		var h float64
		if len(fields) >= 3 {
			h, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, qmerr.Wrap(op, qmerr.GeometryInvalid, err)
			}
		} else if !strings.Contains(strings.ToUpper(s[:open]), "Z") {
			return nil, qmerr.New(op, qmerr.GeometryInvalid,
				"polygon has no Z coordinate: "+s)
		}
		points = append(points, Vertex{Lon: lon, Lat: lat, Height: h})
	}

	// A closed ring repeats its first point as its last; drop it, mirroring
	// topology.py's _verticesFromGDALGeometry.
	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}

	if len(points) < 3 {
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "a ring must have at least 3 coordinates")
	}

	return points, nil
}
