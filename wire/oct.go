package wire

import (
	"math"

	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/qmerr"
)

// unitTolerance bounds how far a vector's squared magnitude may deviate
// from 1 before OctEncode rejects it as not actually a unit vector.
const unitTolerance = 1e-6

func signNotZero(v float64) float64 {
	if v < 0.0 {
		return -1.0
	}
	return 1.0
}

func toSnorm(v float64) uint8 {
	if v < -1.0 {
		v = -1.0
	} else if v > 1.0 {
		v = 1.0
	}
	return uint8(math.Round((v*0.5 + 0.5) * 255.0))
}

func fromSnorm(v uint8) float64 {
	f := float64(v)
	if f < 0 {
		f = 0
	} else if f > 255 {
		f = 255
	}
	return f/255.0*2.0 - 1.0
}

// OctEncode projects the unit vector n onto the octahedron |x|+|y|+|z|=1
// and packs the resulting 2D coordinates into a pair of unsigned bytes, the
// encoding Cesium's AttributeCompression.js uses for vertex normals.
//
// It returns qmerr.NormalizationFailure if n is not within unitTolerance of
// unit length.
func OctEncode(n geo.Vec3) (x, y uint8, err error) {
	if math.Abs(n.MagnitudeSquared()-1.0) > unitTolerance {
		return 0, 0, qmerr.New("wire.OctEncode", qmerr.NormalizationFailure,
			"vector is not of unit magnitude")
	}

	l1Norm := math.Abs(n[0]) + math.Abs(n[1]) + math.Abs(n[2])
	rx := n[0] / l1Norm
	ry := n[1] / l1Norm

	if n[2] < 0.0 {
		oldX, oldY := rx, ry
		rx = (1.0 - math.Abs(oldY)) * signNotZero(oldX)
		ry = (1.0 - math.Abs(oldX)) * signNotZero(oldY)
	}

	return toSnorm(rx), toSnorm(ry), nil
}

// OctDecode is the inverse of OctEncode, reconstructing a unit vector from
// its two-byte oct-encoding.
func OctDecode(x, y uint8) geo.Vec3 {
	rx := fromSnorm(x)
	ry := fromSnorm(y)
	rz := 1.0 - (math.Abs(rx) + math.Abs(ry))

	if rz < 0.0 {
		oldX := rx
		rx = (1.0 - math.Abs(ry)) * signNotZero(oldX)
		ry = (1.0 - math.Abs(oldX)) * signNotZero(ry)
	}

	return geo.Vec3{rx, ry, rz}.Normalize()
}
