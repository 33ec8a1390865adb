package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderrusich/waveviz/pkg/guardclip"
	"github.com/alexanderrusich/waveviz/pkg/loudness"
)

func TestGainOff(t *testing.T) {
	g, err := Gain(Target{Kind: Off}, loudness.Stats{})
	require.NoError(t, err)
	assert.Equal(t, float32(1), g)
}

func TestGainLUFS(t *testing.T) {
	g, err := Gain(Target{Kind: LUFS, Value: -14}, loudness.Stats{GlobalLUFS: -20})
	require.NoError(t, err)
	assert.InDelta(t, 1.9953, g, 0.001)
}

func TestGainPeakdBRejectsPositiveTarget(t *testing.T) {
	_, err := Gain(Target{Kind: PeakdB, Value: 3}, loudness.Stats{MaxPeakDB: -6})
	assert.Error(t, err)
}

func TestApplyConstantAmplitudeToPeakdBReduceGlobalLevel(t *testing.T) {
	ch := make([]float32, 1000)
	for i := range ch {
		ch[i] = 0.5
	}
	a := loudness.NewAnalyzer(48000)
	stats := a.Calc([][]float32{ch})

	result, err := Apply([][]float32{ch}, Target{Kind: PeakdB, Value: -3}, stats, guardclip.ReduceGlobalLevel, 48000)
	require.NoError(t, err)
	assert.Equal(t, guardclip.ResultGlobalGain, result.Kind)

	var maxPeak float32
	for _, v := range ch {
		if v > maxPeak {
			maxPeak = v
		}
	}
	assert.InDelta(t, 0.7079, maxPeak, 0.01) // 10^(-3/20) ~= 0.708
}
