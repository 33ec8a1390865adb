package specmipmap

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatGrey(height, width int, v float32) [][]float32 {
	grey := make([][]float32, height)
	for y := range grey {
		row := make([]float32, width)
		for x := range row {
			row[x] = v
		}
		grey[y] = row
	}
	return grey
}

func TestMipmapPassthroughAtOriginalSize(t *testing.T) {
	grey := flatGrey(4, 6, 0.5)
	m := NewMipmap(grey)

	out := m.Get(6, 4)
	require.Len(t, out, 4)
	require.Len(t, out[0], 6)
	for _, row := range out {
		for _, v := range row {
			assert.InDelta(t, 0.5, v, 1.0/65535)
		}
	}
}

func TestMipmapResizePreservesFlatLevel(t *testing.T) {
	grey := flatGrey(32, 32, 0.75)
	m := NewMipmap(grey)

	out := m.Get(8, 8)
	require.Len(t, out, 8)
	require.Len(t, out[0], 8)
	for _, row := range out {
		for _, v := range row {
			assert.InDelta(t, 0.75, v, 0.01)
		}
	}
}

// Lanczos interpolation spreads a one-pixel peak over its neighbors, so the
// upsized maximum falls below 1.0 by more than one quantization step; this
// checks only that the peak survives the resize.
func TestMipmapResizeKeepsIsolatedPeak(t *testing.T) {
	grey := flatGrey(16, 16, 0)
	grey[8][8] = 1.0
	m := NewMipmap(grey)

	upsized := m.Get(32, 32)
	var maxV float32
	for _, row := range upsized {
		for _, v := range row {
			if v > maxV {
				maxV = v
			}
		}
	}
	assert.Greater(t, maxV, float32(0.3))
}

func TestDimensionsReflectsOriginal(t *testing.T) {
	m := NewMipmap(flatGrey(5, 9, 0.1))
	w, h := m.Dimensions()
	assert.Equal(t, 9, w)
	assert.Equal(t, 5, h)
}

func TestSerializeWireFormat(t *testing.T) {
	grey := [][]float32{{1, 2}, {3, 4}}
	buf := Serialize(grey)
	require.Len(t, buf, 8+4*4)

	height := binary.LittleEndian.Uint32(buf[0:4])
	width := binary.LittleEndian.Uint32(buf[4:8])
	assert.Equal(t, uint32(2), height)
	assert.Equal(t, uint32(2), width)

	first := math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12]))
	assert.Equal(t, float32(1), first)
	last := math.Float32frombits(binary.LittleEndian.Uint32(buf[20:24]))
	assert.Equal(t, float32(4), last)
}

func TestSerializeTileMatchesSerializeAndReleaseRoundTrips(t *testing.T) {
	s := NewStore()
	grey := [][]float32{{1, 2}, {3, 4}}

	want := Serialize(grey)
	got := s.SerializeTile(grey)
	assert.Equal(t, want, got)

	s.ReleaseSerialized(got)
	again := s.SerializeTile(grey)
	assert.Equal(t, want, again)
}

func TestStoreSetGetRemove(t *testing.T) {
	s := NewStore()
	_, ok := s.Get("1_0", 4, 4)
	assert.False(t, ok)

	s.Set("1_0", flatGrey(4, 4, 0.25))
	out, ok := s.Get("1_0", 4, 4)
	require.True(t, ok)
	assert.InDelta(t, 0.25, out[0][0], 1e-3)

	resized, ok := s.Get("1_0", 2, 2)
	require.True(t, ok)
	require.Len(t, resized, 2)

	s.Remove("1_0")
	_, ok = s.Get("1_0", 4, 4)
	assert.False(t, ok)
}
