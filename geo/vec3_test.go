package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), a.Add(b))
	assert.Equal(t, NewVec3(-3, -3, -3), a.Sub(b))
	assert.Equal(t, NewVec3(2, 4, 6), a.Scale(2))
	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, NewVec3(-3, 6, -3), a.Cross(b))
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(0, 0, -5)
	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Magnitude(), 1e-12)
	assert.Equal(t, NewVec3(0, 0, -1), n)

	zero := NewVec3(0, 0, 0)
	assert.Equal(t, zero, zero.Normalize())
}

func TestVec3Distance(t *testing.T) {
	a := NewVec3(0, 0, 0)
	b := NewVec3(3, 4, 0)
	assert.Equal(t, 25.0, a.DistanceSquared(b))
	assert.Equal(t, 5.0, a.Distance(b))
}
