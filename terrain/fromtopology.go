package terrain

import (
	"math"

	"github.com/arl/qmesh-tile/bounds"
	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/qmerr"
	"github.com/arl/qmesh-tile/topology"
)

// Extent overrides the geographic bounds a tile is quantized against.
// When nil, FromTopology uses the topology's own min/max lon/lat instead.
type Extent struct {
	West, South, East, North float64
}

// FromTopology builds a Tile from a topology.Built result, quantizing its
// vertices against the tile's geographic extent and height range and
// computing the header's bounding sphere and horizon occlusion point.
//
// Grounded on terrain.py's TerrainTile.fromTerrainTopology.
func FromTopology(built topology.Built, extent *Extent) (*Tile, error) {
	const op = "terrain.FromTopology"

	if len(built.Vertices) == 0 {
		return nil, qmerr.New(op, qmerr.GeometryInvalid, "topology has no vertices")
	}

	t := &Tile{}
	if extent != nil {
		t.West, t.South, t.East, t.North = extent.West, extent.South, extent.East, extent.North
	} else {
		t.West, t.East = built.MinLon, built.MaxLon
		t.South, t.North = built.MinLat, built.MaxLat
	}

	sphere, err := bounds.SphereFromPoints(built.Cartesian)
	if err != nil {
		return nil, qmerr.Wrap(op, qmerr.EmptyBoundingInput, err)
	}

	var ecefMin, ecefMax geo.Vec3
	for i, p := range built.Cartesian {
		if i == 0 {
			ecefMin, ecefMax = p, p
			continue
		}
		for k := 0; k < 3; k++ {
			if p[k] < ecefMin[k] {
				ecefMin[k] = p[k]
			}
			if p[k] > ecefMax[k] {
				ecefMax[k] = p[k]
			}
		}
	}
	center := ecefMin.Add(ecefMax.Sub(ecefMin).Scale(0.5))

	hop, err := bounds.HorizonOcclusionPoint(built.Cartesian, sphere)
	if err != nil {
		return nil, qmerr.Wrap(op, qmerr.EmptyBoundingInput, err)
	}

	t.Header = Header{
		CenterX:                center.X(),
		CenterY:                center.Y(),
		CenterZ:                center.Z(),
		MinimumHeight:          float32(built.MinHeight),
		MaximumHeight:          float32(built.MaxHeight),
		BoundingSphereCenterX:  sphere.Center.X(),
		BoundingSphereCenterY:  sphere.Center.Y(),
		BoundingSphereCenterZ:  sphere.Center.Z(),
		BoundingSphereRadius:   sphere.Radius,
		HorizonOcclusionPointX: hop.X(),
		HorizonOcclusionPointY: hop.Y(),
		HorizonOcclusionPointZ: hop.Z(),
	}

	bLon := maxQuantized / (t.East - t.West)
	bLat := maxQuantized / (t.North - t.South)
	deniv := float64(t.Header.MaximumHeight) - float64(t.Header.MinimumHeight)

	quantize := func(v, origin, scale float64) uint16 {
		return uint16(math.Round((v - origin) * scale))
	}

	t.U = make([]uint16, len(built.Vertices))
	t.V = make([]uint16, len(built.Vertices))
	t.H = make([]uint16, len(built.Vertices))
	for i, v := range built.Vertices {
		t.U[i] = quantize(v.Lon, t.West, bLon)
		t.V[i] = quantize(v.Lat, t.South, bLat)
		if deniv == 0 {
			t.H[i] = 0
		} else {
			t.H[i] = quantize(v.Height, float64(t.Header.MinimumHeight), maxQuantized/deniv)
		}
	}

	t.Indices = built.Indices

	seenWest := make(map[uint32]bool)
	seenSouth := make(map[uint32]bool)
	seenEast := make(map[uint32]bool)
	seenNorth := make(map[uint32]bool)

	for _, idx := range built.Indices {
		v := built.Vertices[idx]
		if v.Lon == t.West && !seenWest[idx] {
			seenWest[idx] = true
			t.WestIndices = append(t.WestIndices, idx)
		} else if v.Lon == t.East && !seenEast[idx] {
			seenEast[idx] = true
			t.EastIndices = append(t.EastIndices, idx)
		}

		if v.Lat == t.South && !seenSouth[idx] {
			seenSouth[idx] = true
			t.SouthIndices = append(t.SouthIndices, idx)
		} else if v.Lat == t.North && !seenNorth[idx] {
			seenNorth[idx] = true
			t.NorthIndices = append(t.NorthIndices, idx)
		}
	}

	if built.Normals != nil {
		t.VLight = built.Normals
	}

	return t, nil
}
