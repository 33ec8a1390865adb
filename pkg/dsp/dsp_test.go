package dsp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHannSumsToHalfN(t *testing.T) {
	for _, n := range []int{2, 3, 4, 8, 17, 100, 257} {
		w := HannWindow(n, false)
		require.Len(t, w, n)
		var sum float64
		for _, v := range w {
			sum += float64(v)
		}
		assert.InDelta(t, float64(n)/2, sum, 1e-3, "n=%d", n)
	}
}

func TestHannWorksExample(t *testing.T) {
	w := HannWindow(4, false)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 0.5}, toF64(w), 1e-6)
}

func TestPad1DReflect(t *testing.T) {
	out := Pad1D([]float32{1, 2, 3}, 3, 4, PadReflect, 0)
	assert.Equal(t, []float32{2, 3, 2, 1, 2, 3, 2, 1, 2, 3}, out)
}

func TestPad2DRowsConstant(t *testing.T) {
	out := Pad2DRows([][]float32{{1, 2, 3}}, 1, 2, PadConstant, 10)
	want := [][]float32{
		{10, 10, 10},
		{1, 2, 3},
		{10, 10, 10},
		{10, 10, 10},
	}
	assert.Equal(t, want, out)
}

func TestDBRoundTrip(t *testing.T) {
	xs := []float32{1e-10, 0.001, 0.1, 1, 10, 100}
	for _, x := range xs {
		buf := []float32{x}
		AmpToDBDefault(buf)
		DBToAmpDefault(buf)
		assert.InEpsilon(t, float64(x), float64(buf[0]), 1e-5)
	}
}

func TestSimdMinMaxMatchesScalar(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		n := r.Intn(200)
		s := make([]float32, n)
		for i := range s {
			s[i] = float32(r.NormFloat64() * 10)
		}
		wantMin, wantMax := ScalarMinMax(s)
		gotMin, gotMax := MinMax(s)
		assert.Equal(t, wantMin, gotMin)
		assert.Equal(t, wantMax, gotMax)
	}
}

func TestWindowedSincs(t *testing.T) {
	sincs := WindowedSincs(32, 8, 0.9, Blackman)
	require.Len(t, sincs, 8)
	assert.InDelta(t, 1.0, sincs[7][16], 0.2)
	var sum float64
	for _, row := range sincs {
		for _, v := range row {
			sum += v
		}
	}
	assert.InDelta(t, 8.0, sum, 0.00001)
}

func toF64(xs []float32) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = float64(v)
	}
	return out
}

var _ = math.Pi
