// Package stft implements the short-time Fourier transform pipeline:
// reflect-padded centered framing, an optional per-frame worker-pool
// parallel path, and a plan-key type for callers that want to cache
// window/filterbank state across repeated transforms of the same
// (sample rate, window length, n_fft) tuple.
//
// Ported from original_source/src_backend/backend/spectrogram/stft.rs's
// perform_stft (frame count, reflect padding and window placement; the
// input is reflect-padded as a whole rather than assembled from
// front/interior/back segments), using
// the same FFT backend the teacher's simple_inference_go/pkg/mel/processor.go
// STFT method already depended on.
package stft

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/mjibson/go-dsp/fft"

	"github.com/alexanderrusich/waveviz/pkg/dsp"
	"github.com/alexanderrusich/waveviz/pkg/pool"
)

// PlanKey identifies a cacheable STFT configuration. original_source used a
// custom TupleIntHasher keyed HashMap here; Go maps cannot take a custom
// hasher, so a plain comparable struct serves directly as the map key (see
// DESIGN.md).
type PlanKey struct {
	SampleRate int
	WinLength  int
	NFFT       int
}

// Perform computes the STFT of x using winLength/hop/nFFT and the supplied
// analysis window (length winLength, e.g. dsp.NormalizedWindow(Hann,
// winLength, nFFT) per spec.md §4.2's "Hann divided by n_fft" default).
// The window is centered within each n_fft frame buffer by zero-padding
// n_pad_left = (n_fft-win_length)/2 samples on the left and the remainder
// on the right, matching calc_normalized_win/perform_stft's framing in
// original_source/src_backend/backend/spectrogram/stft.rs. Frames are
// centered: the signal is reflect-padded by winLength/2 samples on each
// side before framing, so the first frame is centered at sample 0. Returns
// one []complex64 row per frame, each of length nFFT/2+1 (non-negative
// frequencies only).
//
// When parallel is true, frames are computed across GOMAXPROCS worker
// goroutines, following the batch.ProcessBatchParallel semaphore pattern
// from the teacher's go_optimized/pkg/batch/processor.go.
func Perform(x []float32, winLength, hop, nFFT int, window []float32, parallel bool) ([][]complex64, error) {
	if nFFT%2 != 0 {
		return nil, fmt.Errorf("stft: n_fft %d must be even", nFFT)
	}
	if hop <= 0 {
		return nil, fmt.Errorf("stft: hop must be positive, got %d", hop)
	}
	if len(window) != winLength {
		return nil, fmt.Errorf("stft: window length %d must equal win_length %d", len(window), winLength)
	}
	nPadLeft := (nFFT - winLength) / 2

	pad := winLength / 2
	var padded []float32
	if len(x) >= 2 {
		padded = dsp.Pad1D(x, pad, pad, dsp.PadReflect, 0)
	} else {
		// Short-input special case: too few samples to reflect, fall back
		// to zero padding (original_source special-cases len < win_length).
		padded = dsp.Pad1D(x, pad, pad, dsp.PadConstant, 0)
	}

	// Invariant (spec.md §8): floor((len + n_fft - win_length) / hop) + 1.
	numFrames := (len(x)+nFFT-winLength)/hop + 1
	if numFrames < 0 {
		numFrames = 0
	}

	out := make([][]complex64, numFrames)
	// Every frame needs an nFFT-length float64 scratch buffer purely to
	// feed fft.FFTReal, which copies it into its own working array and
	// never retains the slice; pooling it here avoids one allocation per
	// frame, following the teacher's go_optimized/pkg/pool reuse pattern.
	frames := pool.NewFloat64Pool(nFFT)
	buildFrame := func(i int) []complex64 {
		start := i * hop
		frame := frames.Get()
		for j := 0; j < winLength && start+j < len(padded); j++ {
			frame[nPadLeft+j] = float64(padded[start+j]) * float64(window[j])
		}
		spectrum := fft.FFTReal(frame)
		frames.Put(frame)
		nFreq := nFFT/2 + 1
		row := make([]complex64, nFreq)
		for k := 0; k < nFreq; k++ {
			row[k] = complex64(spectrum[k])
		}
		return row
	}

	if !parallel || numFrames < 2 {
		for i := 0; i < numFrames; i++ {
			out[i] = buildFrame(i)
		}
		return out, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > numFrames {
		workers = numFrames
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := 0; i < numFrames; i++ {
		i := i
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = buildFrame(i)
		}()
	}
	wg.Wait()
	return out, nil
}

// Magnitude converts a complex STFT to a real magnitude spectrogram.
func Magnitude(spec [][]complex64) [][]float32 {
	out := make([][]float32, len(spec))
	for t, row := range spec {
		m := make([]float32, len(row))
		for f, c := range row {
			re, im := float64(real(c)), float64(imag(c))
			m[f] = float32(math.Sqrt(re*re + im*im))
		}
		out[t] = m
	}
	return out
}
