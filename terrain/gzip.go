package terrain

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/arl/qmesh-tile/qmerr"
)

// gzipLevel mirrors utils.py's gzipFileObject, which compresses at level 5.
const gzipLevel = 5

// WriteGzip encodes t and gzip-compresses the result, the optional
// container some tile servers use to cut bandwidth. This is a thin wrapper
// around compress/gzip: no domain logic belongs here, and no third-party
// gzip codec appears anywhere in the example pack.
func WriteGzip(w io.Writer, t *Tile) error {
	const op = "terrain.WriteGzip"

	var raw bytes.Buffer
	if err := Encode(&raw, t); err != nil {
		return err
	}

	gz, err := gzip.NewWriterLevel(w, gzipLevel)
	if err != nil {
		return qmerr.Wrap(op, qmerr.IOFailure, err)
	}
	if _, err := gz.Write(raw.Bytes()); err != nil {
		return qmerr.Wrap(op, qmerr.IOFailure, err)
	}
	if err := gz.Close(); err != nil {
		return qmerr.Wrap(op, qmerr.IOFailure, err)
	}
	return nil
}

// ReadGzip un-gzips r and decodes the resulting tile.
func ReadGzip(r io.Reader, west, east, south, north float64) (*Tile, error) {
	const op = "terrain.ReadGzip"

	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, qmerr.Wrap(op, qmerr.MalformedInput, err)
	}
	defer gz.Close()

	return Decode(gz, west, east, south, north)
}
