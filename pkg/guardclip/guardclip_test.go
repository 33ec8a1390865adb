package guardclip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClipClampsToUnitRange(t *testing.T) {
	ch := []float32{0.5, 1.5, -2.0, -0.3}
	result := Apply([][]float32{ch}, Clip, 48000)

	assert.Equal(t, ResultWavBeforeClip, result.Kind)
	assert.Equal(t, []float32{0.5, 1, -1, -0.3}, ch)
	assert.Equal(t, float32(1.5), result.WavBeforeClip[1])
	assert.Equal(t, float32(-2.0), result.WavBeforeClip[2])
	_, untouched := result.WavBeforeClip[0]
	assert.False(t, untouched)
}

func TestReduceGlobalLevelScalesByInversePeak(t *testing.T) {
	ch := []float32{0.5, 2.0, -1.0}
	result := Apply([][]float32{ch}, ReduceGlobalLevel, 48000)

	require.Equal(t, ResultGlobalGain, result.Kind)
	assert.InDelta(t, 0.5, result.GlobalGain, 1e-6)
	for _, v := range ch {
		assert.LessOrEqual(t, v, float32(1.0001))
		assert.GreaterOrEqual(t, v, float32(-1.0001))
	}
}

func TestReduceGlobalLevelNoOpWhenAlreadyInRange(t *testing.T) {
	ch := []float32{0.1, -0.2, 0.3}
	result := Apply([][]float32{ch}, ReduceGlobalLevel, 48000)
	assert.Equal(t, float32(1), result.GlobalGain)
	assert.Equal(t, []float32{0.1, -0.2, 0.3}, ch)
}

func TestLimiterKeepsSignalWithinUnitRange(t *testing.T) {
	ch := make([]float32, 2000)
	for i := range ch {
		ch[i] = 1.8
	}
	result := Apply([][]float32{ch}, Limiter, 48000)

	require.Equal(t, ResultGainSequence, result.Kind)
	require.Len(t, result.GainSequence, 2000)
	for i, v := range ch {
		assert.LessOrEqual(t, v, float32(1.0001), "index %d", i)
	}
	for _, g := range result.GainSequence {
		assert.LessOrEqual(t, g, float32(1.0001))
	}
}

func TestLimiterIsNoOpOnQuietSignal(t *testing.T) {
	ch := []float32{0.1, 0.2, -0.1}
	result := Apply([][]float32{ch}, Limiter, 48000)
	for _, g := range result.GainSequence {
		assert.InDelta(t, 1.0, g, 1e-3)
	}
}

func TestModeStringer(t *testing.T) {
	assert.Equal(t, "clipped", Clip.String())
	assert.Equal(t, "globally reduced", ReduceGlobalLevel.String())
	assert.Equal(t, "reduced", Limiter.String())
}
