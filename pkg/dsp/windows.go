// Package dsp collects the low-level signal-processing primitives shared
// by stft, resample and wavrender: window functions, padding, sinc
// kernels, dB conversions and a SIMD-dispatched min/max reduction.
package dsp

import "math"

// WindowType selects the cosine-sum window used by calc_normalized_win in
// the original backend.
type WindowType int

const (
	Hann WindowType = iota
	Blackman
	BoxCar
)

// NormalizedWindow returns win_type's window of length size divided by
// normFactor elementwise (normFactor is typically n_fft, per spec.md §4.2's
// "Hann divided by n_fft" default STFT window).
func NormalizedWindow(winType WindowType, size int, normFactor float64) []float32 {
	var w []float32
	switch winType {
	case Hann:
		w = HannWindow(size, false)
	case Blackman:
		w = BlackmanWindow(size, false)
	case BoxCar:
		w = make([]float32, size)
		for i := range w {
			w[i] = 1
		}
	}
	for i := range w {
		w[i] = float32(float64(w[i]) / normFactor)
	}
	return w
}

// HannWindow computes the Hann window of length size. When symmetric is
// false (the default, DFT-friendly "periodic" form mandatory for STFT use)
// the window is computed as if of length size+1 and truncated to the first
// size samples.
func HannWindow(size int, symmetric bool) []float32 {
	return cosineWindow(0.5, 0.5, 0, 0, size, symmetric)
}

// BlackmanWindow computes the standard 3-term Blackman window, periodic by
// default, following the same size+1-then-truncate convention as Hann but
// ported directly from the rubato-crate formula (a - b·cos + c·cos) used by
// the original's windows.rs, not the generalized cosine_window helper.
func BlackmanWindow(size int, symmetric bool) []float32 {
	if size <= 1 {
		panic("dsp: window size must be > 1")
	}
	size2 := size
	if symmetric {
		size2 = size + 1
	}
	const a, b, c = 0.42, 0.5, 0.08
	np := float64(size2)
	out := make([]float32, 0, size)
	skip := 0
	if symmetric {
		skip = 1
	}
	for x := 0; x < size2; x++ {
		xf := float64(x)
		v := a - b*math.Cos(2*math.Pi*xf/np) + c*math.Cos(4*math.Pi*xf/np)
		if x >= skip {
			out = append(out, float32(v))
		}
		if len(out) == size {
			break
		}
	}
	return out
}

// cosineWindow implements the four-term cosine-sum window family
// (a - b·cos(2x) + c·cos(4x) - d·cos(6x)) used for Hann (b=0.5, c=d=0).
func cosineWindow(a, b, c, d float64, size int, symmetric bool) []float32 {
	if size <= 1 {
		panic("dsp: window size must be > 1")
	}
	size2 := size
	if !symmetric {
		size2 = size + 1
	}
	out := make([]float32, 0, size)
	for i := 0; i < size2 && len(out) < size; i++ {
		x := math.Pi * float64(i) / float64(size2-1)
		bTerm := b * math.Cos(2*x)
		cTerm := c * math.Cos(4*x)
		dTerm := d * math.Cos(6*x)
		out = append(out, float32((a-bTerm)+(cTerm-dTerm)))
	}
	return out
}

// BoxCarWindow returns a constant 1/norm window of length size.
func BoxCarWindow(size int, norm float64) []float32 {
	out := make([]float32, size)
	v := float32(1 / norm)
	for i := range out {
		out[i] = v
	}
	return out
}
