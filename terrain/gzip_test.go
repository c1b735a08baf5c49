package terrain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGzipRoundTrip(t *testing.T) {
	tile := sampleTile()

	var buf bytes.Buffer
	assert.NoError(t, WriteGzip(&buf, tile))

	got, err := ReadGzip(&buf, tile.West, tile.East, tile.South, tile.North)
	assert.NoError(t, err)
	assert.Equal(t, tile.U, got.U)
	assert.Equal(t, tile.Indices, got.Indices)
}
