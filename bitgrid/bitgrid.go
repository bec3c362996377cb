/*
Package bitgrid provides a fixed-length sequence of boolean flags packed into
64-bit words.

A Grid never changes length after construction. Indexed access outside
[0, Len()) panics, the same way slice indexing does; callers that hold an
untrusted index should check it with InRange first.

The binary form is an int64 element count followed by ceil(count/64)
uint64 words, all little-endian, where bit i of word i/64 holds flag i.
*/
package bitgrid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
)

const wordBits = 64

var (
	ErrNegativeLength  = errors.New("bitgrid: length must be at least 0")
	ErrIndexOutOfRange = errors.New("bitgrid: index out of range")
	ErrCorruptRecord   = errors.New("bitgrid: corrupt record")
)

// Grid is a dense, fixed-size array of single-bit flags.
type Grid struct {
	length int
	words  []uint64
}

// New creates a Grid of the given length with every flag set to defaultValue.
func New(length int, defaultValue bool) (*Grid, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeLength, length)
	}

	g := &Grid{
		length: length,
		words:  make([]uint64, wordCount(length)),
	}
	if defaultValue {
		for i := range g.words {
			g.words[i] = ^uint64(0)
		}
	}
	return g, nil
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	words := make([]uint64, len(g.words))
	copy(words, g.words)
	return &Grid{length: g.length, words: words}
}

// Len returns the number of flags.
func (g *Grid) Len() int {
	return g.length
}

// InRange reports whether idx addresses a flag of g.
func (g *Grid) InRange(idx int) bool {
	return idx >= 0 && idx < g.length
}

// Get returns flag idx. It panics if idx is out of range.
func (g *Grid) Get(idx int) bool {
	g.mustRange(idx)
	return (g.words[idx/wordBits]>>(uint(idx)%wordBits))&1 == 1
}

// Set assigns flag idx. It panics if idx is out of range.
func (g *Grid) Set(idx int, value bool) {
	g.mustRange(idx)
	mask := uint64(1) << (uint(idx) % wordBits)
	if value {
		g.words[idx/wordBits] |= mask
	} else {
		g.words[idx/wordBits] &^= mask
	}
}

// Clear sets every flag to false.
func (g *Grid) Clear() {
	for i := range g.words {
		g.words[i] = 0
	}
}

// IndexOf returns the index of the first flag equal to value, or -1.
func (g *Grid) IndexOf(value bool) int {
	skip := ^uint64(0)
	if value {
		skip = 0
	}

	for i, word := range g.words {
		if word == skip {
			continue
		}
		if !value {
			word = ^word
		}
		idx := i*wordBits + bits.TrailingZeros64(word)
		if idx < g.length {
			return idx
		}
		// Only padding bits past length matched.
		return -1
	}
	return -1
}

// Contains reports whether any flag equals value.
func (g *Grid) Contains(value bool) bool {
	return g.IndexOf(value) != -1
}

// Count returns the number of flags set to true.
func (g *Grid) Count() int {
	n := 0
	for i, word := range g.words {
		if i == len(g.words)-1 {
			word &= tailMask(g.length)
		}
		n += bits.OnesCount64(word)
	}
	return n
}

// Equal reports whether g and other hold the same flags.
func (g *Grid) Equal(other *Grid) bool {
	if g.length != other.length {
		return false
	}
	for i := range g.words {
		a, b := g.words[i], other.words[i]
		if i == len(g.words)-1 {
			a &= tailMask(g.length)
			b &= tailMask(g.length)
		}
		if a != b {
			return false
		}
	}
	return true
}

// WriteTo writes the binary record of g to w.
func (g *Grid) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 8+8*len(g.words))
	binary.LittleEndian.PutUint64(buf, uint64(g.length))
	for i, word := range g.words {
		binary.LittleEndian.PutUint64(buf[8+8*i:], word)
	}

	n, err := w.Write(buf)
	return int64(n), err
}

// Decode reads one binary record from r.
func Decode(r io.Reader) (*Grid, error) {
	length, err := readLength(r)
	if err != nil {
		return nil, err
	}
	return readGrid(r, length)
}

// DecodeLen is like Decode but fails with ErrCorruptRecord unless the record
// holds exactly want flags. The length is checked before any words are read.
func DecodeLen(r io.Reader, want int) (*Grid, error) {
	length, err := readLength(r)
	if err != nil {
		return nil, err
	}
	if length != int64(want) {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrCorruptRecord, length, want)
	}
	return readGrid(r, length)
}

// maxLength caps decoded records so a corrupt length cannot trigger a huge allocation.
const maxLength = 1 << 34

// chunkWords bounds the words read per call, so memory grows with the bytes
// actually present rather than with the length a record claims.
const chunkWords = 4096

func readLength(r io.Reader) (int64, error) {
	var length int64
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return 0, fmt.Errorf("read length: %w", err)
	}
	if length < 0 || length > int64(maxLength) {
		return 0, fmt.Errorf("%w: length %d", ErrCorruptRecord, length)
	}
	return length, nil
}

func readGrid(r io.Reader, length int64) (*Grid, error) {
	count := wordCount(int(length))
	words := make([]uint64, 0, min(count, chunkWords))
	buf := make([]byte, 8*min(count, chunkWords))
	for len(words) < count {
		n := min(count-len(words), chunkWords)
		if _, err := io.ReadFull(r, buf[:8*n]); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("read words: %w", err)
		}
		for i := 0; i < n; i++ {
			words = append(words, binary.LittleEndian.Uint64(buf[8*i:]))
		}
	}

	return &Grid{length: int(length), words: words}, nil
}

func (g *Grid) mustRange(idx int) {
	if !g.InRange(idx) {
		panic(fmt.Sprintf("%v: index %d not within [0,%d)", ErrIndexOutOfRange, idx, g.length))
	}
}

func wordCount(length int) int {
	return (length + wordBits - 1) / wordBits
}

// tailMask masks the bits of the last word that belong to the grid.
func tailMask(length int) uint64 {
	rem := uint(length) % wordBits
	if rem == 0 {
		return ^uint64(0)
	}
	return uint64(1)<<rem - 1
}
