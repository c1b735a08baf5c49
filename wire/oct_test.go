package wire

import (
	"math"
	"testing"

	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/qmerr"
)

func TestOctEncodeKnown(t *testing.T) {
	cases := []struct {
		n    geo.Vec3
		x, y uint8
	}{
		{geo.NewVec3(0, 0, -1), 255, 255},
		{geo.NewVec3(0, 0, 1), 128, 128},
	}
	for _, c := range cases {
		x, y, err := OctEncode(c.n)
		if err != nil {
			t.Fatalf("OctEncode(%v) returned error: %v", c.n, err)
		}
		if x != c.x || y != c.y {
			t.Errorf("OctEncode(%v) = (%d, %d), want (%d, %d)", c.n, x, y, c.x, c.y)
		}
	}
}

func TestOctEncodeRejectsNonUnit(t *testing.T) {
	_, _, err := OctEncode(geo.NewVec3(2, 0, 0))
	if err == nil {
		t.Fatal("expected error for non-unit vector")
	}
	if !qmerr.Is(err, qmerr.NormalizationFailure) {
		t.Errorf("expected NormalizationFailure, got %v", err)
	}
}

func TestOctRoundTrip(t *testing.T) {
	vectors := []geo.Vec3{
		geo.NewVec3(1, 0, 0),
		geo.NewVec3(0, 1, 0),
		geo.NewVec3(0, 0, 1),
		geo.NewVec3(0, 0, -1),
		geo.NewVec3(1, 1, 1).Normalize(),
		geo.NewVec3(-1, 0.5, -0.25).Normalize(),
	}
	for _, n := range vectors {
		x, y, err := OctEncode(n)
		if err != nil {
			t.Fatalf("OctEncode(%v) returned error: %v", n, err)
		}
		got := OctDecode(x, y)
		if got.Distance(n) > 0.02 {
			t.Errorf("OctDecode(OctEncode(%v)) = %v, too far off", n, got)
		}
	}
}

func TestSignNotZero(t *testing.T) {
	if signNotZero(0) != 1.0 {
		t.Error("signNotZero(0) should be 1.0")
	}
	if signNotZero(-0.0001) != -1.0 {
		t.Error("signNotZero(-0.0001) should be -1.0")
	}
	if math.Abs(signNotZero(5)-1.0) > 1e-9 {
		t.Error("signNotZero(5) should be 1.0")
	}
}
