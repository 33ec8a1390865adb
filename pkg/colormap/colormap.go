// Package colormap converts single-channel grey (dB-normalized) pixels to
// RGBA using the 10-stop inferno-like palette from
// original_source/native/backend/src/display.rs, plus the flat waveform
// fill color used by pkg/wavrender.
package colormap

import "math"

// LUT is the 10-stop [R,G,B,A] colormap, linearly interpolated between
// stops by GreyToRGBA.
var LUT = [10][4]uint8{
	{0, 0, 4, 255},
	{27, 12, 65, 255},
	{74, 12, 107, 255},
	{120, 28, 109, 255},
	{165, 44, 96, 255},
	{207, 68, 70, 255},
	{237, 105, 37, 255},
	{251, 155, 6, 255},
	{247, 209, 61, 255},
	{252, 255, 164, 255},
}

// WaveColor is the flat fill color used for waveform envelope bars.
var WaveColor = [4]uint8{200, 21, 103, 255}

// GreyToRGBA maps a normalized grey value x (expected in [0,1], clamped to
// >=0 like the original's assert) to an RGBA quad by linear interpolation
// between adjacent LUT stops.
func GreyToRGBA(x float32) [4]uint8 {
	if x < 0 {
		x = 0
	}
	position := float32(len(LUT)) * x
	index := int(position)
	if index >= len(LUT)-1 {
		return LUT[len(LUT)-1]
	}
	ratio := position - float32(index)
	var out [4]uint8
	for i := 0; i < 3; i++ {
		v := ratio*float32(LUT[index+1][i]) + (1-ratio)*float32(LUT[index][i])
		out[i] = uint8(math.Round(float64(v)))
	}
	out[3] = 255
	return out
}
