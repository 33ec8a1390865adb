package wavrender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsampleLinearFactor(t *testing.T) {
	// samples_per_px = 0.25 means width = 4x len(wav), so each output
	// sample must come from an upsample factor of 4 with no gaps.
	wav := make([]float32, 10)
	for i := range wav {
		wav[i] = float32(i)
	}
	width := 40
	samplesPerPx := float32(len(wav)) / float32(width)
	require.InDelta(t, 0.25, samplesPerPx, 1e-9)

	factor := 4 // ceil(1/0.25)
	up := upsampleLinear(wav, factor)
	assert.Len(t, up, factor*len(wav))
}

func TestDrawProducesNoGapsAndMinimumSpan(t *testing.T) {
	wav := make([]float32, 10)
	for i := range wav {
		wav[i] = 0.5
	}
	width, height := 40, 100
	opt := DefaultDrawOption()
	opt.LineThresholdSamplesPx = 0 // force envelope mode regardless of upsample ratio

	img := Draw(wav, width, height, opt)
	for x := 0; x < width; x++ {
		spanRows := 0
		for y := 0; y < height; y++ {
			if img.RGBAAt(x, y).A != 0 {
				spanRows++
			}
		}
		assert.GreaterOrEqual(t, spanRows, 3, "column %d span too thin", x)
	}
}

func TestDrawEmptyWavReturnsBlankImage(t *testing.T) {
	img := Draw(nil, 10, 10, DefaultDrawOption())
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestAmpToHeightPxMapsRangeEndpoints(t *testing.T) {
	ampRange := [2]float32{-1, 1}
	assert.Equal(t, 0, ampToHeightPx(1, 100, ampRange))
	assert.Equal(t, 100, ampToHeightPx(-1, 100, ampRange))
}

func TestReleaseAllowsImageReuseWithoutStalePixels(t *testing.T) {
	wav := make([]float32, 10)
	for i := range wav {
		wav[i] = 0.9
	}
	opt := DefaultDrawOption()
	opt.LineThresholdSamplesPx = 0

	first := Draw(wav, 20, 20, opt)
	require.NotNil(t, first)
	Release(first)

	// A pooled image must come back fully cleared, not carrying the
	// previous occupant's pixels into an unrelated draw.
	second := Draw(nil, 20, 20, opt)
	for _, p := range second.Pix {
		assert.Equal(t, uint8(0), p)
	}
}

func TestOverviewHeightsLayout(t *testing.T) {
	h := NewOverviewHeights(100, 2, 3, 0.2)
	// height_without_gap = 100 - 2*2 = 96; ch = 32
	assert.InDelta(t, 32, h.Ch, 1e-6)
	assert.InDelta(t, 6.4, h.Gain, 1e-6)
	assert.InDelta(t, 32-2*6.4, h.ChWoGain, 1e-6)
}

func TestDrawOverviewStacksChannels(t *testing.T) {
	channels := [][]float32{
		make([]float32, 20),
		make([]float32, 20),
	}
	for i := range channels[0] {
		channels[0][i] = 1
		channels[1][i] = -1
	}
	img := DrawOverview(channels, 40, 60, 1, 0.2)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())
}
