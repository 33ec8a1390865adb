// Package viewport translates a requested (sec_range, hz_range) viewport
// into integer pixel bounds over a cached spectrogram/waveform image,
// ported from
// original_source/thesia-native-backend/src/backend/visualize/slice_args.rs.
package viewport

import (
	"math"

	"github.com/alexanderrusich/waveviz/pkg/mel"
	"github.com/alexanderrusich/waveviz/pkg/proto"
)

// SliceArgs is the pixel-space translation of a requested viewport, plus
// the fractional residuals the front end needs to sub-pixel-align the
// blitted tile after rounding.
type SliceArgs struct {
	PxPerSec                                 float64
	Left, Width, Top, Height                 int
	LeftMargin, RightMargin                  float64
	TopMargin, BottomMargin                  float64
}

// addPrePostMargin expands [start, start+length) by margin pixels on
// each side and clips to [0, maxLength). The residuals are preMargin =
// start - startClipped (the kept leading margin plus any fractional part
// of start) and postMargin = lenClipped - length, which is 2*margin when
// nothing clips and start+length is whole.
func addPrePostMargin(start, length float64, maxLength, margin int) (startClipped, lenClipped int, preMargin, postMargin float64) {
	startWMargin := int64(start) - int64(margin)
	lenWMargin := int64(math.Ceil(start+length)) + int64(margin) - startWMargin
	if lenWMargin < 0 {
		lenWMargin = 0
	}

	startWMarginClipped := startWMargin
	if startWMarginClipped < 0 {
		startWMarginClipped = 0
	}
	lenWMarginClipped := lenWMargin
	if max := int64(maxLength) - startWMarginClipped; lenWMarginClipped > max {
		lenWMarginClipped = max
	}
	if lenWMarginClipped < 0 {
		lenWMarginClipped = 0
	}

	preMargin = start - float64(startWMarginClipped)
	postMargin = float64(lenWMarginClipped) - length
	return int(startWMarginClipped), int(lenWMarginClipped), preMargin, postMargin
}

// hzToRelativeFreq maps hz into [0, 1] over specHzRange according to the
// spectrogram's frequency scale: linear ratio for Linear, equal-mel ratio
// for Mel — matching how the cached image's rows were laid out.
func hzToRelativeFreq(hz float64, specHzRange [2]float64, scale proto.FreqScale) float64 {
	lo, hi := specHzRange[0], specHzRange[1]
	if scale == proto.Mel {
		loMel, hiMel := mel.FromHz(lo), mel.FromHz(hi)
		return (mel.FromHz(hz) - loMel) / (hiMel - loMel)
	}
	return (hz - lo) / (hi - lo)
}

// NewSliceArgs computes the pixel-space viewport for a cached image of
// nFrames x nFreqs, covering trackSec seconds and specHzRange Hz, for the
// requested (secRange, hzRange) with marginPx pixels of context on every
// side (spectrogram resampling needs neighboring pixels beyond the
// visible region).
func NewSliceArgs(
	nFrames, nFreqs int,
	trackSec float64,
	secRange [2]float64,
	specHzRange [2]float64,
	hzRange [2]float64,
	marginPx int,
	freqScale proto.FreqScale,
) SliceArgs {
	pxPerSec := float64(nFrames) / trackSec
	leftF64 := secRange[0] * pxPerSec
	widthF64 := math.Max(0, (secRange[1]-secRange[0])*pxPerSec)

	left, width, leftMargin, rightMargin := addPrePostMargin(leftF64, widthF64, nFrames, marginPx)

	topF64 := hzToRelativeFreq(hzRange[0], specHzRange, freqScale) * float64(nFreqs)
	bottomF64 := hzToRelativeFreq(hzRange[1], specHzRange, freqScale) * float64(nFreqs)
	heightF64 := bottomF64 - topF64

	top, height, topMargin, bottomMargin := addPrePostMargin(topF64, heightF64, nFreqs, marginPx)

	return SliceArgs{
		PxPerSec:     pxPerSec,
		Left:         left,
		Width:        width,
		Top:          top,
		Height:       height,
		LeftMargin:   leftMargin,
		RightMargin:  rightMargin,
		TopMargin:    topMargin,
		BottomMargin: bottomMargin,
	}
}
