package topology

import "github.com/arl/qmesh-tile/qmerr"

// Autocorrect collapses a polygon ring of more than three vertices into a
// list of triangles by repeatedly clipping the "ear" whose two neighbors
// are closest together: at each step it picks the vertex m whose removal
// would connect its two ring-neighbors with the shortest possible diagonal,
// emits the triangle formed by that vertex and its neighbors, and removes
// m from the ring. Grounded on spec.md §4.4's autocorrect description; no
// source variant of this algorithm survived in original_source, so the
// ear-selection rule (shortest candidate diagonal) is taken directly from
// the specification text rather than transliterated from Python.
//
// ring must have at least 3 vertices (its closing vertex, if repeated,
// should already have been dropped by the caller).
func Autocorrect(ring []Vertex) ([][3]Vertex, error) {
	const op = "topology.Autocorrect"

	if len(ring) < 3 {
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "a ring must have at least 3 coordinates")
	}

	// Work on a copy so the caller's slice is untouched.
	pts := append([]Vertex(nil), ring...)

	var triangles [][3]Vertex
	for len(pts) > 3 {
		n := len(pts)
		best := -1
		var bestDist float64
		for m := 0; m < n; m++ {
			prev := pts[(m-1+n)%n]
			next := pts[(m+1)%n]
			d := squaredDistance(prev, next)
			if best < 0 || d < bestDist {
				best = m
				bestDist = d
			}
		}

		n2 := len(pts)
		prev := pts[(best-1+n2)%n2]
		mid := pts[best]
		next := pts[(best+1)%n2]
		triangles = append(triangles, [3]Vertex{prev, mid, next})

		pts = append(pts[:best], pts[best+1:]...)
	}

	triangles = append(triangles, [3]Vertex{pts[0], pts[1], pts[2]})
	return triangles, nil
}

func squaredDistance(a, b Vertex) float64 {
	dLon := a.Lon - b.Lon
	dLat := a.Lat - b.Lat
	dH := a.Height - b.Height
	return dLon*dLon + dLat*dLat + dH*dH
}
