package dsp

import "math"

// Sinc computes sin(pi*x)/(pi*x), with Sinc(0) = 1.
func Sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// WindowedSincs returns a factor x npoints array of polyphase windowed
// sincs, each phase normalized so the whole set sums to factor (so that
// summed upsampling preserves amplitude), matching calc_windowed_sincs.
func WindowedSincs(npoints, factor int, fCutoff float64, winType WindowType) [][]float64 {
	totpoints := npoints * factor
	window := NormalizedWindow(winType, totpoints, 1)

	y := make([]float64, totpoints)
	var sum float64
	half := float64(totpoints / 2)
	for x := 0; x < totpoints; x++ {
		v := float64(window[x]) * Sinc((float64(x)-half)*fCutoff/float64(factor))
		y[x] = v
		sum += v
	}
	sum /= float64(factor)

	sincs := make([][]float64, factor)
	for i := range sincs {
		sincs[i] = make([]float64, npoints)
	}
	for p := 0; p < npoints; p++ {
		for n := 0; n < factor; n++ {
			sincs[factor-n-1][p] = y[factor*p+n] / sum
		}
	}
	return sincs
}
