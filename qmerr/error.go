// Package qmerr defines the error kinds surfaced by the codec, topology
// builder, editable tile and stitcher packages.
package qmerr

import (
	"errors"
	"fmt"
)

// Kind classifies why a top-level operation failed.
type Kind int

const (
	// Unknown is the zero value; it should never be returned by this module.
	Unknown Kind = iota

	// MalformedInput covers a truncated stream, trailing bytes after the
	// declared content, an invalid watermask length, or an unknown
	// extension id.
	MalformedInput

	// GeometryInvalid covers a polygon without a Z coordinate, a
	// non-triangular geometry with autocorrect disabled, or invalid
	// WKT/WKB input.
	GeometryInvalid

	// NormalizationFailure covers an attempt to oct-encode a vector that
	// isn't of unit magnitude within tolerance.
	NormalizationFailure

	// EmptyBoundingInput covers a bounding-sphere construction attempted
	// with fewer than two points.
	EmptyBoundingInput

	// StitchMismatch covers a neighbor tile that shares no edge with the
	// center tile, or a required adjacent triangle that is missing.
	StitchMismatch

	// InvariantViolation covers a post-edit rebuild that finds mismatched
	// array lengths, or any other internal consistency check failing.
	InvariantViolation

	// IOFailure wraps filesystem/codec I/O errors unchanged.
	IOFailure
)

func (k Kind) String() string {
	switch k {
	case MalformedInput:
		return "malformed input"
	case GeometryInvalid:
		return "geometry invalid"
	case NormalizationFailure:
		return "normalization failure"
	case EmptyBoundingInput:
		return "empty bounding input"
	case StitchMismatch:
		return "stitch mismatch"
	case InvariantViolation:
		return "invariant violation"
	case IOFailure:
		return "io failure"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by this module's top-level
// operations. Op names the failing operation (e.g. "terrain.Decode",
// "stitch.Stitch"); Err, when set, is the underlying cause and is
// reachable through Unwrap.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an *Error with no wrapped cause.
func New(op string, kind Kind, msg string) *Error {
	return &Error{Op: op, Kind: kind, Err: errString(msg)}
}

// Wrap returns an *Error that wraps err under the given op/kind.
func Wrap(op string, kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

type errString string

func (e errString) Error() string { return string(e) }

// Is reports whether err is (or wraps) a *qmerr.Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
