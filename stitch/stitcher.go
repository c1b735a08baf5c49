package stitch

import (
	"sort"

	"github.com/arl/qmesh-tile/editable"
	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/qmerr"
)

// Stitcher joins a center tile to one or more neighbor tiles sharing an
// edge, grounded on tile_stitcher.py's TileStitcher.
type Stitcher struct {
	Center    *editable.Tile
	neighbors map[editable.Edge]*editable.Tile
}

// New returns a Stitcher for center.
func New(center *editable.Tile) *Stitcher {
	return &Stitcher{Center: center, neighbors: make(map[editable.Edge]*editable.Tile)}
}

// AddNeighbor registers neighbor against whichever of the center tile's
// edges its bounding box touches.
func (s *Stitcher) AddNeighbor(neighbor *editable.Tile) error {
	edge, err := s.edgeOf(neighbor)
	if err != nil {
		return err
	}
	s.neighbors[edge] = neighbor
	return nil
}

func (s *Stitcher) edgeOf(n *editable.Tile) (editable.Edge, error) {
	switch {
	case s.Center.West == n.East:
		return editable.West, nil
	case s.Center.East == n.West:
		return editable.East, nil
	case s.Center.North == n.South:
		return editable.North, nil
	case s.Center.South == n.North:
		return editable.South, nil
	}
	return 0, qmerr.New("stitch.AddNeighbor", qmerr.StitchMismatch,
		"neighbor tile shares no edge with the center tile")
}

func opposite(edge editable.Edge) editable.Edge {
	switch edge {
	case editable.West:
		return editable.East
	case editable.East:
		return editable.West
	case editable.North:
		return editable.South
	default:
		return editable.North
	}
}

// StitchTogether matches every registered neighbor's shared-edge vertices
// against the center tile's, splitting triangles to fill in any vertex
// missing on one side, averaging heights where vertices already line up,
// and harmonizing normals across every touched vertex.
func (s *Stitcher) StitchTogether() error {
	edges := s.edgeConnections()

	for edge, connections := range edges {
		if err := s.stitchEdge(edge, connections); err != nil {
			return err
		}
	}

	// Normals are harmonized against the connections' vertex indices as
	// recorded during stitchEdge; RebuildIndices renumbers vertices, so it
	// must not run until harmonization (and every other indexed lookup
	// against the connections) is done.
	if err := s.harmonizeNormals(edges); err != nil {
		return err
	}

	if err := s.Center.RebuildIndices(); err != nil {
		return err
	}
	for _, n := range s.neighbors {
		if err := n.RebuildIndices(); err != nil {
			return err
		}
	}

	s.Center.RebuildHeights()
	for _, n := range s.neighbors {
		n.RebuildHeights()
	}

	return nil
}

// edgeConnections builds, for every registered neighbor, the sorted list
// of Connections describing how the center tile's and that neighbor's
// shared-edge vertices line up.
func (s *Stitcher) edgeConnections() map[editable.Edge][]*Connection {
	out := make(map[editable.Edge][]*Connection, len(s.neighbors))

	for edge, neighbor := range s.neighbors {
		byCoord := make(map[uint16]*Connection)

		coordOf := func(t *editable.Tile, idx uint32) uint16 {
			if edge == editable.West || edge == editable.East {
				return t.V[idx]
			}
			return t.U[idx]
		}

		for _, idx := range s.Center.EdgeVertices(edge) {
			coord := coordOf(s.Center, idx)
			c, ok := byCoord[coord]
			if !ok {
				c = &Connection{Coord: coord}
				byCoord[coord] = c
			}
			c.Set(SideCenter, idx)
		}
		for _, idx := range neighbor.EdgeVertices(opposite(edge)) {
			coord := coordOf(neighbor, idx)
			c, ok := byCoord[coord]
			if !ok {
				c = &Connection{Coord: coord}
				byCoord[coord] = c
			}
			c.Set(SideNeighbor, idx)
		}

		connections := make([]*Connection, 0, len(byCoord))
		for _, c := range byCoord {
			connections = append(connections, c)
		}
		sort.Slice(connections, func(i, j int) bool { return connections[i].Coord < connections[j].Coord })

		out[edge] = connections
	}

	return out
}

func (s *Stitcher) stitchEdge(edge editable.Edge, connections []*Connection) error {
	const op = "stitch.StitchTogether"
	neighbor := s.neighbors[edge]

	for i, c := range connections {
		switch {
		case c.IsComplete():
			s.averageHeight(neighbor, c)

		case c.IsBrokenOnNeighbor():
			prev, err := neighborNeighborOf(connections, i, -1)
			if err != nil {
				return err
			}
			next, err := neighborNeighborOf(connections, i, 1)
			if err != nil {
				return err
			}
			tri := neighbor.FindTriangleWithEdge(prev, next)
			if tri < 0 {
				return qmerr.New(op, qmerr.StitchMismatch, "no neighbor triangle spans the broken vertex")
			}
			lon, lat, height := s.Center.LLH(int(c.CenterVertex))
			newIdx := neighbor.SplitTriangle(tri, prev, next, lon, lat, height)
			c.Set(SideNeighbor, newIdx)

		case c.IsBrokenOnCenter():
			prev, err := centerNeighborOf(connections, i, -1)
			if err != nil {
				return err
			}
			next, err := centerNeighborOf(connections, i, 1)
			if err != nil {
				return err
			}
			tri := s.Center.FindTriangleWithEdge(prev, next)
			if tri < 0 {
				return qmerr.New(op, qmerr.StitchMismatch, "no center triangle spans the broken vertex")
			}
			lon, lat, height := neighbor.LLH(int(c.NeighborVertex))
			newIdx := s.Center.SplitTriangle(tri, prev, next, lon, lat, height)
			c.Set(SideCenter, newIdx)
		}
	}

	return nil
}

// neighborNeighborOf scans connections from index in the given direction
// (-1 or 1) for the nearest one with a neighbor-side vertex.
func neighborNeighborOf(connections []*Connection, index, dir int) (uint32, error) {
	for i := index; i >= 0 && i < len(connections); i += dir {
		if v, ok := connections[i].Vertex(SideNeighbor); ok {
			return v, nil
		}
	}
	return 0, qmerr.New("stitch.StitchTogether", qmerr.StitchMismatch,
		"no adjacent neighbor-side vertex found")
}

// centerNeighborOf is neighborNeighborOf's counterpart for the center
// side.
func centerNeighborOf(connections []*Connection, index, dir int) (uint32, error) {
	for i := index; i >= 0 && i < len(connections); i += dir {
		if v, ok := connections[i].Vertex(SideCenter); ok {
			return v, nil
		}
	}
	return 0, qmerr.New("stitch.StitchTogether", qmerr.StitchMismatch,
		"no adjacent center-side vertex found")
}

func (s *Stitcher) averageHeight(neighbor *editable.Tile, c *Connection) {
	h := (s.Center.Height(int(c.CenterVertex)) + neighbor.Height(int(c.NeighborVertex))) / 2
	s.Center.SetHeight(int(c.CenterVertex), h)
	neighbor.SetHeight(int(c.NeighborVertex), h)
}

// harmonizeNormals recomputes, for every connection vertex, a single
// normal from every triangle (on either side) touching it, and writes it
// back to both tiles so the seam shades continuously.
func (s *Stitcher) harmonizeNormals(edges map[editable.Edge][]*Connection) error {
	if len(s.Center.VLight) == 0 {
		return nil
	}

	for edge, connections := range edges {
		neighbor := s.neighbors[edge]
		if len(neighbor.VLight) == 0 {
			continue
		}

		for _, c := range connections {
			if !c.IsComplete() {
				continue
			}

			centerTriangles := s.Center.TrianglesContaining(c.CenterVertex)
			neighborTriangles := neighbor.TrianglesContaining(c.NeighborVertex)

			weighted := s.Center.WeightedNormalsFor(centerTriangles)
			weighted = append(weighted, neighbor.WeightedNormalsFor(neighborTriangles)...)

			var sum geo.Vec3
			for _, w := range weighted {
				sum = sum.Add(w)
			}
			normal := sum.Normalize()

			s.Center.SetNormal(int(c.CenterVertex), normal)
			neighbor.SetNormal(int(c.NeighborVertex), normal)
		}
	}

	return nil
}
