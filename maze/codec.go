package maze

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/beka-birhanu/vinom-maze/bitgrid"
)

// header is the fixed-size prefix of a maze record.
type header struct {
	Width    int32
	Height   int32
	StartKey int64
	EndKey   int64
}

// WriteTo writes m to w: int32 width, int32 height, int64 start key,
// int64 end key, then the north and west wall grids. All little-endian.
func (m *Maze) WriteTo(w io.Writer) (int64, error) {
	h := header{
		Width:    int32(m.width),
		Height:   int32(m.height),
		StartKey: int64(m.startKey),
		EndKey:   int64(m.endKey),
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	total := int64(binary.Size(h))

	for _, g := range []*bitgrid.Grid{m.northWalls, m.westWalls} {
		n, err := g.WriteTo(w)
		total += n
		if err != nil {
			return total, fmt.Errorf("write walls: %w", err)
		}
	}
	return total, nil
}

// Decode reads a maze record written by WriteTo.
func Decode(r io.Reader) (*Maze, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if h.Width < 1 || h.Height < 1 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrCorruptRecord, h.Width, h.Height)
	}

	size := int64(h.Width) * int64(h.Height)
	northWalls, err := bitgrid.DecodeLen(r, int(size))
	if err != nil {
		return nil, fmt.Errorf("read north walls: %w", corrupt(err))
	}
	westWalls, err := bitgrid.DecodeLen(r, int(size))
	if err != nil {
		return nil, fmt.Errorf("read west walls: %w", corrupt(err))
	}

	if h.StartKey < 0 || h.StartKey >= size || h.EndKey < 0 || h.EndKey >= size {
		return nil, fmt.Errorf("%w: start/end outside %dx%d", ErrCorruptRecord, h.Width, h.Height)
	}

	return &Maze{
		width:      int(h.Width),
		height:     int(h.Height),
		northWalls: northWalls,
		westWalls:  westWalls,
		startKey:   int(h.StartKey),
		endKey:     int(h.EndKey),
	}, nil
}

// corrupt reports a bitgrid length mismatch as a corrupt maze record.
func corrupt(err error) error {
	if errors.Is(err, bitgrid.ErrCorruptRecord) {
		return fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return err
}
