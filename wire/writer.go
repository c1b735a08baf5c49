// Package wire implements the fixed-width little-endian binary primitives
// the quantized-mesh codec is built on: value pack/unpack, zig-zag
// encoding, high-watermark index encoding and oct-encoding of unit
// normals.
package wire

import (
	"encoding/binary"
	"io"
)

// Writer accumulates little-endian writes to an underlying io.Writer,
// sticking to the first error it encounters — every Put call after a
// failure becomes a no-op, so callers can issue a whole header's worth of
// writes and check Err once at the end, the same shape detour/tile.go
// uses around binary.Read for decoding.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer wrapping w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered by any Put call, or nil.
func (w *Writer) Err() error { return w.err }

func (w *Writer) write(v interface{}) {
	if w.err != nil {
		return
	}
	w.err = binary.Write(w.w, binary.LittleEndian, v)
}

// PutU8 writes v as a single byte.
func (w *Writer) PutU8(v uint8) { w.write(v) }

// PutU16 writes v as two little-endian bytes.
func (w *Writer) PutU16(v uint16) { w.write(v) }

// PutU32 writes v as four little-endian bytes.
func (w *Writer) PutU32(v uint32) { w.write(v) }

// PutF32 writes v as an IEEE-754 single precision little-endian value.
func (w *Writer) PutF32(v float32) { w.write(v) }

// PutF64 writes v as an IEEE-754 double precision little-endian value.
func (w *Writer) PutF64(v float64) { w.write(v) }

// PutIndex writes v as either a u16 or a u32 depending on wide.
func (w *Writer) PutIndex(v uint32, wide bool) {
	if wide {
		w.PutU32(v)
	} else {
		w.PutU16(uint16(v))
	}
}
