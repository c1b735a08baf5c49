package terrain

import (
	"bytes"
	"io"
	"log"

	"github.com/arl/qmesh-tile/geo"
	"github.com/arl/qmesh-tile/qmerr"
	"github.com/arl/qmesh-tile/wire"
	"github.com/fatih/structs"
)

// extension ids, per the quantized-mesh format spec.
const (
	extensionLighting  = 1
	extensionWatermask = 2
)

// Decode reads a quantized-mesh tile from r. West/East/South/North give the
// tile's geographic extent, which the wire format itself does not carry.
// Extension blocks are self-describing (id + length) and read until the
// stream is exhausted; any trailing bytes after a well-formed extension, or
// an unrecognized extension id, is a MalformedInput error.
func Decode(r io.Reader, west, east, south, north float64) (*Tile, error) {
	const op = "terrain.Decode"

	rd := wire.NewReader(r)
	t := &Tile{West: west, East: east, South: south, North: north}

	t.Header = Header{
		CenterX:                rd.GetF64(),
		CenterY:                rd.GetF64(),
		CenterZ:                rd.GetF64(),
		MinimumHeight:          rd.GetF32(),
		MaximumHeight:          rd.GetF32(),
		BoundingSphereCenterX:  rd.GetF64(),
		BoundingSphereCenterY:  rd.GetF64(),
		BoundingSphereCenterZ:  rd.GetF64(),
		BoundingSphereRadius:   rd.GetF64(),
		HorizonOcclusionPointX: rd.GetF64(),
		HorizonOcclusionPointY: rd.GetF64(),
		HorizonOcclusionPointZ: rd.GetF64(),
	}
	log.Println("decoded tile header", structs.Map(t.Header))

	vertexCount := rd.GetU32()

	t.U = make([]uint16, vertexCount)
	t.V = make([]uint16, vertexCount)
	t.H = make([]uint16, vertexCount)

	var ud, vd, hd int32
	for i := range t.U {
		ud += wire.ZigZagDecode(uint32(rd.GetU16()))
		t.U[i] = uint16(ud)
	}
	for i := range t.V {
		vd += wire.ZigZagDecode(uint32(rd.GetU16()))
		t.V[i] = uint16(vd)
	}
	for i := range t.H {
		hd += wire.ZigZagDecode(uint32(rd.GetU16()))
		t.H[i] = uint16(hd)
	}

	wide := vertexCount > wideIndexThreshold

	triangleCount := rd.GetU32()
	codes := make([]uint32, triangleCount*3)
	for i := range codes {
		codes[i] = rd.GetIndex(wide)
	}
	t.Indices = wire.DecodeIndices(codes)

	readEdge := func() []uint32 {
		n := rd.GetU32()
		out := make([]uint32, n)
		for i := range out {
			out[i] = rd.GetIndex(wide)
		}
		return out
	}
	t.WestIndices = readEdge()
	t.SouthIndices = readEdge()
	t.EastIndices = readEdge()
	t.NorthIndices = readEdge()

	if err := rd.Err(); err != nil {
		return nil, qmerr.Wrap(op, qmerr.MalformedInput, err)
	}

	// Extension blocks are self-describing and optional: keep reading
	// id+length blocks until the stream is exhausted.
	for !rd.AtEOF() {
		extensionID := rd.GetU8()
		extensionLength := rd.GetU32()

		switch extensionID {
		case extensionLighting:
			rd.GetU8()
			rd.GetU8()

			count := extensionLength / 2
			t.VLight = make([]geo.Vec3, 0, count)
			for i := uint32(0); i < count; i++ {
				x := rd.GetU8()
				y := rd.GetU8()
				t.VLight = append(t.VLight, wire.OctDecode(x, y))
			}

		case extensionWatermask:
			if extensionLength != 1 && extensionLength != tilePixels {
				return nil, qmerr.New(op, qmerr.MalformedInput, "watermask extension length must be 1 or 65536")
			}
			samples := make([]uint8, extensionLength)
			for i := range samples {
				samples[i] = rd.GetU8()
			}
			if len(samples) == 1 {
				t.Watermask = [][]uint8{samples}
			} else {
				for i := 0; i < 256; i++ {
					t.Watermask = append(t.Watermask, samples[i*256:(i+1)*256])
				}
			}

		default:
			return nil, qmerr.New(op, qmerr.MalformedInput, "unknown extension id")
		}

		if err := rd.Err(); err != nil {
			return nil, qmerr.Wrap(op, qmerr.MalformedInput, err)
		}
	}

	return t, nil
}

// Encode writes t to w in the quantized-mesh binary format.
func Encode(w io.Writer, t *Tile) error {
	const op = "terrain.Encode"

	if len(t.U) != len(t.V) || len(t.U) != len(t.H) {
		return qmerr.New(op, qmerr.InvariantViolation, "u/v/h arrays have mismatched lengths")
	}

	wr := wire.NewWriter(w)

	wr.PutF64(t.Header.CenterX)
	wr.PutF64(t.Header.CenterY)
	wr.PutF64(t.Header.CenterZ)
	wr.PutF32(t.Header.MinimumHeight)
	wr.PutF32(t.Header.MaximumHeight)
	wr.PutF64(t.Header.BoundingSphereCenterX)
	wr.PutF64(t.Header.BoundingSphereCenterY)
	wr.PutF64(t.Header.BoundingSphereCenterZ)
	wr.PutF64(t.Header.BoundingSphereRadius)
	wr.PutF64(t.Header.HorizonOcclusionPointX)
	wr.PutF64(t.Header.HorizonOcclusionPointY)
	wr.PutF64(t.Header.HorizonOcclusionPointZ)

	vertexCount := uint32(len(t.U))
	wr.PutU32(vertexCount)

	putDeltas := func(values []uint16) {
		var prev int32
		for i, v := range values {
			var delta int32
			if i == 0 {
				delta = int32(v)
			} else {
				delta = int32(v) - prev
			}
			wr.PutU16(uint16(wire.ZigZagEncode(delta)))
			prev = int32(v)
		}
	}
	putDeltas(t.U)
	putDeltas(t.V)
	putDeltas(t.H)

	wide := t.usesWideIndices()

	wr.PutU32(uint32(len(t.Indices) / 3))
	codes := wire.EncodeIndices(t.Indices)
	for _, c := range codes {
		wr.PutIndex(c, wide)
	}

	putEdge := func(indices []uint32) {
		wr.PutU32(uint32(len(indices)))
		for _, idx := range indices {
			wr.PutIndex(idx, wide)
		}
	}
	putEdge(t.WestIndices)
	putEdge(t.SouthIndices)
	putEdge(t.EastIndices)
	putEdge(t.NorthIndices)

	if t.HasLighting() {
		wr.PutU8(extensionLighting)
		wr.PutU32(2 * vertexCount)
		wr.PutU8(0)
		wr.PutU8(0)
		for _, n := range t.VLight {
			x, y, err := wire.OctEncode(n)
			if err != nil {
				return qmerr.Wrap(op, qmerr.NormalizationFailure, err)
			}
			wr.PutU8(x)
			wr.PutU8(y)
		}
	}

	if t.HasWatermask() {
		wr.PutU8(extensionWatermask)
		if len(t.Watermask) > 1 {
			if len(t.Watermask) != 256 {
				return qmerr.New(op, qmerr.InvariantViolation, "watermask must have 256 rows")
			}
			wr.PutU32(tilePixels)
			for _, row := range t.Watermask {
				if len(row) != 256 {
					return qmerr.New(op, qmerr.InvariantViolation, "watermask row must have 256 columns")
				}
				for _, v := range row {
					wr.PutU8(v)
				}
			}
		} else {
			wr.PutU32(1)
			wr.PutU8(t.Watermask[0][0])
		}
	}

	if err := wr.Err(); err != nil {
		return qmerr.Wrap(op, qmerr.IOFailure, err)
	}
	return nil
}

// EncodeBytes returns t encoded as a standalone byte slice.
func EncodeBytes(t *Tile) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
