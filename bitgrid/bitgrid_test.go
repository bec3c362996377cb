package bitgrid

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/rand"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Negative length", func(t *testing.T) {
		_, err := New(-1, false)
		assert.ErrorIs(t, err, ErrNegativeLength)
	})

	t.Run("Default values", func(t *testing.T) {
		for _, def := range []bool{true, false} {
			g, err := New(130, def)
			require.NoError(t, err)
			assert.Equal(t, 130, g.Len())
			for i := 0; i < g.Len(); i++ {
				assert.Equal(t, def, g.Get(i))
			}
		}
	})

	t.Run("Empty grid", func(t *testing.T) {
		g, err := New(0, true)
		require.NoError(t, err)
		assert.Equal(t, 0, g.Len())
		assert.Equal(t, -1, g.IndexOf(true))
		assert.Equal(t, 0, g.Count())
	})
}

func TestGetSet(t *testing.T) {
	g, err := New(100, false)
	require.NoError(t, err)

	t.Run("Set and read back", func(t *testing.T) {
		g.Set(0, true)
		g.Set(63, true)
		g.Set(64, true)
		g.Set(99, true)
		assert.True(t, g.Get(0))
		assert.True(t, g.Get(63))
		assert.True(t, g.Get(64))
		assert.True(t, g.Get(99))
		assert.False(t, g.Get(1))
		assert.Equal(t, 4, g.Count())

		g.Set(63, false)
		assert.False(t, g.Get(63))
		assert.Equal(t, 3, g.Count())
	})

	t.Run("Out of range", func(t *testing.T) {
		assert.False(t, g.InRange(-1))
		assert.False(t, g.InRange(100))
		assert.Panics(t, func() { g.Get(100) })
		assert.Panics(t, func() { g.Get(-1) })
		assert.Panics(t, func() { g.Set(100, true) })
	})
}

func TestIndexOfAndClear(t *testing.T) {
	g, err := New(200, true)
	require.NoError(t, err)

	assert.Equal(t, 0, g.IndexOf(true))
	assert.Equal(t, -1, g.IndexOf(false))
	assert.False(t, g.Contains(false))

	g.Set(150, false)
	assert.Equal(t, 150, g.IndexOf(false))
	assert.True(t, g.Contains(false))

	g.Clear()
	assert.Equal(t, -1, g.IndexOf(true))
	assert.Equal(t, 0, g.IndexOf(false))
	assert.Equal(t, 0, g.Count())
}

func TestIndexOfIgnoresPadding(t *testing.T) {
	g, err := New(70, true)
	require.NoError(t, err)
	for i := 0; i < g.Len(); i++ {
		g.Set(i, false)
	}
	// Padding bits in the last word are still set.
	assert.Equal(t, -1, g.IndexOf(true))
	assert.Equal(t, 0, g.Count())
}

func TestCloneAndEqual(t *testing.T) {
	g, err := New(65, false)
	require.NoError(t, err)
	g.Set(64, true)

	c := g.Clone()
	assert.True(t, g.Equal(c))

	c.Set(3, true)
	assert.False(t, g.Get(3))
	assert.False(t, g.Equal(c))

	other, err := New(66, false)
	require.NoError(t, err)
	assert.False(t, g.Equal(other))
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for _, length := range []int{0, 1, 63, 64, 65, 127, 128, 129, 1000} {
		g, err := New(length, false)
		require.NoError(t, err)
		for i := 0; i < length; i++ {
			g.Set(i, rnd.Intn(2) == 1)
		}

		var buf bytes.Buffer
		n, err := g.WriteTo(&buf)
		require.NoError(t, err)
		assert.Equal(t, int64(8+8*((length+63)/64)), n)

		decoded, err := Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, length, decoded.Len())
		for i := 0; i < length; i++ {
			assert.Equal(t, g.Get(i), decoded.Get(i), "flag %d of %d", i, length)
		}
		assert.Zero(t, buf.Len())
	}
}

func TestEncodingLayout(t *testing.T) {
	g, err := New(3, false)
	require.NoError(t, err)
	g.Set(1, true)

	var buf bytes.Buffer
	_, err = g.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.Bytes()
	require.Len(t, raw, 16)
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(raw[0:8]))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(raw[8:16]))
}

func TestDecodeErrors(t *testing.T) {
	t.Run("Truncated length", func(t *testing.T) {
		_, err := Decode(bytes.NewReader([]byte{1, 2, 3}))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("Truncated words", func(t *testing.T) {
		raw := make([]byte, 12)
		binary.LittleEndian.PutUint64(raw, 64)
		_, err := Decode(bytes.NewReader(raw))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("Negative length", func(t *testing.T) {
		raw := make([]byte, 8)
		binary.LittleEndian.PutUint64(raw, ^uint64(0))
		_, err := Decode(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrCorruptRecord)
	})

	t.Run("Claimed length without words", func(t *testing.T) {
		raw := make([]byte, 16)
		binary.LittleEndian.PutUint64(raw, maxLength)

		var err error
		allocated := allocatedBytes(func() {
			_, err = Decode(bytes.NewReader(raw))
		})
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Less(t, allocated, uint64(1<<20))
	})
}

func TestDecodeLen(t *testing.T) {
	g, err := New(130, true)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = g.WriteTo(&buf)
	require.NoError(t, err)

	t.Run("Matching length", func(t *testing.T) {
		decoded, err := DecodeLen(bytes.NewReader(buf.Bytes()), 130)
		require.NoError(t, err)
		assert.True(t, g.Equal(decoded))
	})

	t.Run("Mismatch is rejected before reading words", func(t *testing.T) {
		raw := make([]byte, 8)
		binary.LittleEndian.PutUint64(raw, maxLength)

		var err error
		allocated := allocatedBytes(func() {
			_, err = DecodeLen(bytes.NewReader(raw), 1)
		})
		assert.ErrorIs(t, err, ErrCorruptRecord)
		assert.Less(t, allocated, uint64(1<<20))
	})
}

// allocatedBytes reports the heap bytes allocated while fn runs.
func allocatedBytes(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}
