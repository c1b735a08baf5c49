// Package bounds computes the bounding volumes a tile header carries: a
// minimum bounding sphere enclosing the tile's vertices, and the horizon
// occlusion point Cesium uses to cull tiles hidden behind the ellipsoid's
// horizon.
package bounds

import (
	"math"

	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/qmerr"
)

// Sphere is a minimum bounding sphere.
type Sphere struct {
	Center geo.Vec3
	Radius float64
}

// SphereFromPoints computes an approximate minimum bounding sphere for
// points using Ritter's algorithm: grow a sphere from the pair of points
// spanning the largest axis, then expand it to cover any point it misses,
// falling back to the naive min/max-box sphere when that's smaller.
//
// It returns qmerr.EmptyBoundingInput if fewer than two points are given.
func SphereFromPoints(points []geo.Vec3) (Sphere, error) {
	if len(points) < 2 {
		return Sphere{}, qmerr.New("bounds.SphereFromPoints", qmerr.EmptyBoundingInput,
			"at least 2 points are required")
	}

	minX, maxX := points[0], points[0]
	minY, maxY := points[0], points[0]
	minZ, maxZ := points[0], points[0]

	for _, p := range points {
		if p[0] < minX[0] {
			minX = p
		}
		if p[1] < minY[1] {
			minY = p
		}
		if p[2] < minZ[2] {
			minZ = p
		}
		if p[0] > maxX[0] {
			maxX = p
		}
		if p[1] > maxY[1] {
			maxY = p
		}
		if p[2] > maxZ[2] {
			maxZ = p
		}
	}

	xSpan := maxX.Sub(minX).MagnitudeSquared()
	ySpan := maxY.Sub(minY).MagnitudeSquared()
	zSpan := maxZ.Sub(minZ).MagnitudeSquared()

	diameter1, diameter2 := minX, maxX
	maxSpan := xSpan
	if ySpan > maxSpan {
		maxSpan = ySpan
		diameter1, diameter2 = minY, maxY
	}
	if zSpan > maxSpan {
		diameter1, diameter2 = minZ, maxZ
	}

	ritterCenter := diameter1.Add(diameter2).Scale(0.5)
	radiusSquared := diameter2.Sub(ritterCenter).MagnitudeSquared()
	ritterRadius := math.Sqrt(radiusSquared)

	minBoxPt := geo.NewVec3(minX[0], minY[1], minZ[2])
	maxBoxPt := geo.NewVec3(maxX[0], maxY[1], maxZ[2])
	naiveCenter := minBoxPt.Add(maxBoxPt).Scale(0.5)
	var naiveRadius float64

	for _, p := range points {
		if r := p.Distance(naiveCenter); r > naiveRadius {
			naiveRadius = r
		}

		oldCenterToPointSquared := p.Sub(ritterCenter).MagnitudeSquared()
		if oldCenterToPointSquared > radiusSquared {
			oldCenterToPoint := math.Sqrt(oldCenterToPointSquared)
			ritterRadius = (ritterRadius + oldCenterToPoint) * 0.5
			oldToNew := oldCenterToPoint - ritterRadius
			ritterCenter = geo.NewVec3(
				(ritterRadius*ritterCenter[0]+oldToNew*p[0])/oldCenterToPoint,
				(ritterRadius*ritterCenter[1]+oldToNew*p[1])/oldCenterToPoint,
				(ritterRadius*ritterCenter[2]+oldToNew*p[2])/oldCenterToPoint,
			)
		}
	}

	if ritterRadius < naiveRadius {
		return Sphere{Center: ritterCenter, Radius: ritterRadius}, nil
	}
	return Sphere{Center: naiveCenter, Radius: naiveRadius}, nil
}
