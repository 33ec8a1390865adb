// Package wavrender draws peak-preserving waveform tiles, ported from
// original_source/native/backend/src/display.rs::wav_to_image. Each pixel
// column reduces an overlapping sample window to (min, max) and fills a
// vertical span between the two, with a 3px minimum span so flat regions
// stay visible; an envelope/line hybrid and an overview layout pass are
// exposed the way thesia-wasm-renderer's WavDrawingOptions/OverviewHeights
// drive them.
package wavrender

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/alexanderrusich/waveviz/pkg/dsp"
	"github.com/alexanderrusich/waveviz/pkg/pool"
)

// imagePools caches one pool.ImagePool per (width, height), since repeated
// Draw/DrawOverview calls at a fixed viewport size (the common case while
// a user plays back or scrolls without resizing) request the same image
// dimensions every time.
var (
	imagePoolsMu sync.Mutex
	imagePools   = map[[2]int]*pool.ImagePool{}
)

func imagePoolFor(width, height int) *pool.ImagePool {
	imagePoolsMu.Lock()
	defer imagePoolsMu.Unlock()
	key := [2]int{width, height}
	p, ok := imagePools[key]
	if !ok {
		p = pool.NewImagePool(width, height)
		imagePools[key] = p
	}
	return p
}

// clearRGBA resets every pixel to transparent black so a pooled image
// carries none of its previous occupant's pixels into the new draw.
func clearRGBA(img *image.RGBA) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}

// Release returns img to its size-keyed pool once the caller (e.g. a PNG
// encoder or a wire writer) is done reading it. Skipping this call is
// harmless; it only forgoes reuse on the next same-size Draw/DrawOverview.
func Release(img *image.RGBA) {
	b := img.Bounds()
	imagePoolFor(b.Dx(), b.Dy()).Put(img)
}

// WaveColor is the flat fill/stroke color for waveform pixels, matching
// display.rs's WAVECOLOR.
var WaveColor = color.RGBA{200, 21, 103, 255}

// DrawOptionForWav configures one draw call.
type DrawOptionForWav struct {
	AmpRange               [2]float32 // (min, max), min < max
	DPR                    float32
	LineWidth              float32
	NeedBorderForEnvelope  bool
	NeedBorderForLine      bool
	LineThresholdSamplesPx float32 // below this samples/px, draw a polyline instead of envelope
}

// DefaultDrawOption returns the conventional full-scale envelope options.
func DefaultDrawOption() DrawOptionForWav {
	return DrawOptionForWav{
		AmpRange:               [2]float32{-1, 1},
		DPR:                    1,
		LineWidth:              1,
		LineThresholdSamplesPx: 1,
	}
}

// Draw renders wav (one channel's samples for the requested viewport) to
// a width x height RGBA image, peak-preserving per spec §4.9.
func Draw(wav []float32, width, height int, opt DrawOptionForWav) *image.RGBA {
	img := imagePoolFor(width, height).Get()
	clearRGBA(img)
	if width <= 0 || height <= 0 || len(wav) == 0 {
		return img
	}

	samplesPerPx := float32(len(wav)) / float32(width)
	work := wav
	if samplesPerPx < 1 {
		factor := int(math.Ceil(float64(1 / samplesPerPx)))
		work = upsampleLinear(wav, factor)
		samplesPerPx = float32(len(work)) / float32(width)
	}

	if samplesPerPx < opt.LineThresholdSamplesPx {
		drawLine(img, work, width, height, samplesPerPx, opt)
	} else {
		drawEnvelope(img, work, width, height, samplesPerPx, opt)
	}
	return img
}

func ampToHeightPx(x float32, height int, ampRange [2]float32) int {
	lo, hi := ampRange[0], ampRange[1]
	return int(math.Round(float64((hi - x) * float32(height) / (hi - lo))))
}

func drawEnvelope(img *image.RGBA, wav []float32, width, height int, samplesPerPx float32, opt DrawOptionForWav) {
	n := len(wav)
	for i := 0; i < width; i++ {
		start := int(math.Max(0, math.Round(float64((float32(i)-1.5)*samplesPerPx))))
		end := int(math.Min(float64(n), math.Round(float64((float32(i)+1.5)*samplesPerPx))))
		if start >= end {
			continue
		}
		minV, maxV := dsp.MinMax(wav[start:end])

		top := ampToHeightPx(maxV, height, opt.AmpRange)
		bottom := ampToHeightPx(minV, height, opt.AmpRange)
		if bottom-top < 3 {
			padBottom := int(math.Ceil(float64(3-bottom+top) / 2))
			padTop := int(math.Floor(float64(3-bottom+top) / 2))
			top -= padTop
			bottom += padBottom
		}
		if top < 0 {
			top = 0
		}
		if bottom > height {
			bottom = height
		}
		for y := top; y <= bottom && y < height; y++ {
			img.SetRGBA(i, y, WaveColor)
		}
	}
}

// drawLine draws a 1-sample-per-pixel polyline through sample centers,
// used once each output pixel spans too few input samples for an
// envelope fill to read as anything but noise.
func drawLine(img *image.RGBA, wav []float32, width, height int, samplesPerPx float32, opt DrawOptionForWav) {
	n := len(wav)
	prevY := -1
	for i := 0; i < width; i++ {
		idx := int(math.Round(float64(float32(i) * samplesPerPx)))
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			continue
		}
		y := ampToHeightPx(wav[idx], height, opt.AmpRange)
		if y < 0 {
			y = 0
		}
		if y >= height {
			y = height - 1
		}
		if prevY == -1 {
			img.SetRGBA(i, y, WaveColor)
		} else {
			lo, hi := prevY, y
			if lo > hi {
				lo, hi = hi, lo
			}
			for yy := lo; yy <= hi; yy++ {
				img.SetRGBA(i, yy, WaveColor)
			}
		}
		prevY = y
	}
}

func upsampleLinear(xs []float32, factor int) []float32 {
	out := make([]float32, factor*len(xs))
	for i := range out {
		base := i / factor
		frac := float32(i%factor) / float32(factor)
		var next float32
		if base+1 < len(xs) {
			next = xs[base+1]
		}
		out[i] = next*frac + xs[base]*(1-frac)
	}
	return out
}

// OverviewHeights lays out n_ch equal-height channel bands within a total
// height, each with a top/bottom gain band, matching thesia-wasm-renderer
// overview.rs's OverviewHeights.
type OverviewHeights struct {
	Ch        float32 // total height of one channel's band, gain included
	Gap       float32 // vertical gap between channel bands
	Gain      float32 // top/bottom gain-band height within a channel
	ChWoGain  float32 // channel band height excluding its gain bands
}

// NewOverviewHeights computes the per-channel layout for DrawOverview.
func NewOverviewHeights(height, gap float32, nCh int, gainHeightRatio float32) OverviewHeights {
	heightWithoutGap := height - gap*float32(nCh-1)
	ch := heightWithoutGap / float32(nCh)
	gain := ch * gainHeightRatio
	return OverviewHeights{
		Ch:       ch,
		Gap:      gap,
		Gain:     gain,
		ChWoGain: ch - 2*gain,
	}
}

// DrawOverview renders one track per channel, fit to width, stacked
// vertically with OverviewHeights spacing, fixed full-scale amp range.
func DrawOverview(channels [][]float32, width, totalHeight int, gap, gainHeightRatio float32) *image.RGBA {
	img := imagePoolFor(width, totalHeight).Get()
	clearRGBA(img)
	if len(channels) == 0 {
		return img
	}
	heights := NewOverviewHeights(float32(totalHeight), gap, len(channels), gainHeightRatio)
	opt := DefaultDrawOption()

	for i, ch := range channels {
		chImg := Draw(ch, width, int(math.Round(float64(heights.Ch))), opt)
		offsetY := int(math.Round(float64(float32(i) * (heights.Ch + heights.Gap))))
		drawRect(img, chImg, 0, offsetY)
		Release(chImg)
	}
	return img
}

func drawRect(dst *image.RGBA, src *image.RGBA, offsetX, offsetY int) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		dy := y + offsetY
		if dy < dst.Bounds().Min.Y || dy >= dst.Bounds().Max.Y {
			continue
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := x + offsetX
			if dx < dst.Bounds().Min.X || dx >= dst.Bounds().Max.X {
				continue
			}
			c := src.RGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			dst.SetRGBA(dx, dy, c)
		}
	}
}
