package resample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedResamplerImpulsePeak(t *testing.T) {
	r := NewFixedResampler(147, 1000)

	in := make([]float32, 147)
	in[1] = 0.3
	in[2] = 0.7
	in[3] = 1.0
	in[4] = 0.7
	in[5] = 0.3

	out, err := r.Resample(in)
	require.NoError(t, err)
	require.Len(t, out, 1000)

	wantPeak := int(math.Round(3.0 * 1000.0 / 147.0))
	gotPeak := 0
	for i, v := range out {
		if v > out[gotPeak] {
			gotPeak = i
		}
	}
	assert.Equal(t, wantPeak, gotPeak)
	assert.InDelta(t, 1.0, out[gotPeak], 0.1)
}

func TestFixedResamplerRejectsWrongInputSize(t *testing.T) {
	r := NewFixedResampler(147, 1000)
	_, err := r.Resample(make([]float32, 10))
	assert.Error(t, err)
}

func TestStreamResamplerSameRateIsIdentity(t *testing.T) {
	s := NewStreamResampler()
	in := []float32{1, 2, 3, 4, 5}
	out := s.Process(48000, 48000, in)
	assert.Equal(t, in, out)
}

func TestStreamResamplerTargetLength(t *testing.T) {
	s := NewStreamResampler()
	in := make([]float32, 5000)
	for i := range in {
		in[i] = float32(math.Sin(float64(i) * 0.1))
	}
	out := s.Process(44100, 48000, in)
	want := int(math.Round(float64(len(in)) * 48000.0 / 44100.0))
	assert.Equal(t, want, len(out))
}

func TestStreamResamplerReusesPlan(t *testing.T) {
	s := NewStreamResampler()
	in := make([]float32, 10000)
	s.Process(44100, 22050, in)
	s.mu.Lock()
	n := len(s.plans)
	s.mu.Unlock()
	s.Process(44100, 22050, in)
	s.mu.Lock()
	n2 := len(s.plans)
	s.mu.Unlock()
	assert.Equal(t, 1, n)
	assert.Equal(t, n, n2)
}
