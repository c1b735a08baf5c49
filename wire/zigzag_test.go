package wire

import "testing"

func TestZigZagEncode(t *testing.T) {
	cases := []struct {
		n    int32
		want uint32
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2, 4},
		{1000000, 2000000},
		{-1000000, 1999999},
	}
	for _, c := range cases {
		if got := ZigZagEncode(c.n); got != c.want {
			t.Errorf("ZigZagEncode(%d) = %d, want %d", c.n, got, c.want)
		}
		if got := ZigZagDecode(c.want); got != c.n {
			t.Errorf("ZigZagDecode(%d) = %d, want %d", c.want, got, c.n)
		}
	}
}

func TestZigZagRoundTrip(t *testing.T) {
	for n := int32(-5000); n < 5000; n++ {
		if got := ZigZagDecode(ZigZagEncode(n)); got != n {
			t.Fatalf("round trip failed for %d, got %d", n, got)
		}
	}
}
