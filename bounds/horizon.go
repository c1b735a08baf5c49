package bounds

import (
	"math"

	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/qmerr"
)

// Ellipsoid-scaled reciprocal radii, used to bring coordinates into the
// unit-sphere space the Cesium horizon-culling algorithm operates in.
// See https://cesiumjs.org/2013/04/25/Horizon-culling/
var (
	invRadiusX = 1.0 / geo.RadiusX
	invRadiusY = 1.0 / geo.RadiusY
	invRadiusZ = 1.0 / geo.RadiusZ
)

func scaleDown(p geo.Vec3) geo.Vec3 {
	return geo.NewVec3(p[0]*invRadiusX, p[1]*invRadiusY, p[2]*invRadiusZ)
}

func computeMagnitude(point, sphereCenter geo.Vec3) float64 {
	magnitudeSquared := point.MagnitudeSquared()
	magnitude := math.Sqrt(magnitudeSquared)
	direction := point.Scale(1 / magnitude)

	if magnitudeSquared < 1.0 {
		magnitudeSquared = 1.0
	}
	if magnitude < 1.0 {
		magnitude = 1.0
	}

	cosAlpha := direction.Dot(sphereCenter)
	sinAlpha := direction.Cross(sphereCenter).Magnitude()
	cosBeta := 1.0 / magnitude
	sinBeta := math.Sqrt(magnitudeSquared-1.0) * cosBeta

	return 1.0 / (cosAlpha*cosBeta - sinAlpha*sinBeta)
}

// HorizonOcclusionPoint computes, from points and their bounding sphere,
// the point Cesium's client-side renderer tests against the ellipsoid
// horizon to decide whether the tile can be culled. See
// https://cesiumjs.org/2013/05/09/Computing-the-horizon-occlusion-point/
//
// It returns qmerr.EmptyBoundingInput if points is empty.
func HorizonOcclusionPoint(points []geo.Vec3, sphere Sphere) (geo.Vec3, error) {
	if len(points) < 1 {
		return geo.Vec3{}, qmerr.New("bounds.HorizonOcclusionPoint", qmerr.EmptyBoundingInput,
			"at least 1 point is required")
	}

	scaledCenter := scaleDown(sphere.Center)

	var maxMagnitude float64
	for i, p := range points {
		m := computeMagnitude(scaleDown(p), scaledCenter)
		if i == 0 || m > maxMagnitude {
			maxMagnitude = m
		}
	}

	return scaledCenter.Scale(maxMagnitude), nil
}
