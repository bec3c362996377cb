// Package codec compresses mazes into compact blobs for storage and caching.
//
// A blob is a short magic header followed by the zstd-compressed binary
// maze record.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/klauspost/compress/zstd"
)

const magic = "VMZ1"

// MaxCells is the largest maze a blob may hold.
const MaxCells = 1 << 26

var ErrBadMagic = errors.New("codec: not a maze blob")

var (
	encoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	decoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(RecordSize(MaxCells))))
	})
)

// RecordSize returns the length of the raw record of a maze with the given
// number of cells: the header and two wall grids.
func RecordSize(cells int) int {
	grid := 8 + 8*((cells+63)/64)
	return 24 + 2*grid
}

// Encode serializes and compresses m.
func Encode(m *maze.Maze) ([]byte, error) {
	var raw bytes.Buffer
	if _, err := m.WriteTo(&raw); err != nil {
		return nil, fmt.Errorf("write maze: %w", err)
	}
	return Compress(raw.Bytes())
}

// Decode reverses Encode.
func Decode(blob []byte) (*maze.Maze, error) {
	raw, err := Decompress(blob)
	if err != nil {
		return nil, err
	}
	m, err := maze.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("read maze: %w", err)
	}
	return m, nil
}

// Compress wraps a raw maze record into a blob.
func Compress(raw []byte) ([]byte, error) {
	enc, err := encoder()
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	return enc.EncodeAll(raw, []byte(magic)), nil
}

// Decompress extracts the raw maze record from a blob.
func Decompress(blob []byte) ([]byte, error) {
	if !bytes.HasPrefix(blob, []byte(magic)) {
		return nil, ErrBadMagic
	}
	dec, err := decoder()
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	raw, err := dec.DecodeAll(blob[len(magic):], nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return raw, nil
}
