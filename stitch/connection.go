// Package stitch joins a center tile to its neighbors along shared edges:
// vertices that only exist on one side get the opposite tile's triangle
// split to match them, vertices that already match on both sides get their
// heights averaged, and every touched vertex gets a harmonized normal.
package stitch

// Side names which tile a Connection's vertex belongs to.
type Side int

const (
	// SideCenter is the tile the Stitcher was built around.
	SideCenter Side = iota
	// SideNeighbor is the tile being stitched against the center tile.
	SideNeighbor
)

// Connection tracks, for one coordinate along a shared edge, the vertex
// index on each side that sits at that coordinate, if any. This replaces
// tile_stitcher.py's EdgeConnection, which keyed a dict by single-letter
// side strings ('c', 'w', 'n', ...); Go's two known sides fit a plain
// struct better than a map.
type Connection struct {
	// Coord is the quantized coordinate (V for a west/east edge, U for a
	// north/south edge) connections are sorted and matched by.
	Coord uint16

	CenterVertex   uint32
	HasCenter      bool
	NeighborVertex uint32
	HasNeighbor    bool
}

// Set records vertex as belonging to side.
func (c *Connection) Set(side Side, vertex uint32) {
	switch side {
	case SideCenter:
		c.CenterVertex = vertex
		c.HasCenter = true
	case SideNeighbor:
		c.NeighborVertex = vertex
		c.HasNeighbor = true
	}
}

// Has reports whether side has a recorded vertex.
func (c *Connection) Has(side Side) bool {
	switch side {
	case SideCenter:
		return c.HasCenter
	case SideNeighbor:
		return c.HasNeighbor
	}
	return false
}

// Vertex returns the recorded vertex for side; ok is false if side has no
// recorded vertex.
func (c *Connection) Vertex(side Side) (vertex uint32, ok bool) {
	switch side {
	case SideCenter:
		return c.CenterVertex, c.HasCenter
	case SideNeighbor:
		return c.NeighborVertex, c.HasNeighbor
	}
	return 0, false
}

// IsComplete reports whether both sides share this coordinate exactly.
func (c *Connection) IsComplete() bool { return c.HasCenter && c.HasNeighbor }

// IsBrokenOnNeighbor reports whether only the center tile has a vertex at
// this coordinate.
func (c *Connection) IsBrokenOnNeighbor() bool { return c.HasCenter && !c.HasNeighbor }

// IsBrokenOnCenter reports whether only the neighbor tile has a vertex at
// this coordinate.
func (c *Connection) IsBrokenOnCenter() bool { return c.HasNeighbor && !c.HasCenter }
