package bounds

import (
	"testing"

	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/qmerr"
	"github.com/stretchr/testify/assert"
)

func TestSphereFromPointsRejectsTooFew(t *testing.T) {
	_, err := SphereFromPoints([]geo.Vec3{geo.NewVec3(0, 0, 0)})
	assert.Error(t, err)
	assert.True(t, qmerr.Is(err, qmerr.EmptyBoundingInput))
}

func TestSphereFromPointsCube(t *testing.T) {
	points := []geo.Vec3{
		geo.NewVec3(-1, -1, -1),
		geo.NewVec3(1, -1, -1),
		geo.NewVec3(-1, 1, -1),
		geo.NewVec3(1, 1, -1),
		geo.NewVec3(-1, -1, 1),
		geo.NewVec3(1, -1, 1),
		geo.NewVec3(-1, 1, 1),
		geo.NewVec3(1, 1, 1),
	}
	sphere, err := SphereFromPoints(points)
	assert.NoError(t, err)

	assert.InDelta(t, 0, sphere.Center.X(), 1e-9)
	assert.InDelta(t, 0, sphere.Center.Y(), 1e-9)
	assert.InDelta(t, 0, sphere.Center.Z(), 1e-9)

	for _, p := range points {
		assert.LessOrEqual(t, p.Distance(sphere.Center), sphere.Radius+1e-9)
	}
}

func TestSphereFromPointsCollinear(t *testing.T) {
	points := []geo.Vec3{
		geo.NewVec3(0, 0, 0),
		geo.NewVec3(10, 0, 0),
		geo.NewVec3(5, 0, 0),
	}
	sphere, err := SphereFromPoints(points)
	assert.NoError(t, err)
	for _, p := range points {
		assert.LessOrEqual(t, p.Distance(sphere.Center), sphere.Radius+1e-9)
	}
}
