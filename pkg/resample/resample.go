// Package resample implements FFT-based fixed-ratio resampling and a
// chunked streaming resampler keyed by sample-rate pair, ported from the
// rubato-derived FftResampler in
// original_source/native/backend/resample.rs and the chunked
// RESAMPLERS cache in original_source/src-wasm/src/resample.rs.
package resample

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"

	"github.com/alexanderrusich/waveviz/pkg/dsp"
)

// FixedResampler resamples fixed-size blocks of InputSize() samples to
// OutputSize() samples via spectral interpolation: a windowed-sinc
// low-pass kernel is transformed once at construction, then each input
// block's one-sided spectrum is multiplied by the kernel's spectrum and
// reassembled at the target length by truncating or zero-padding in the
// frequency domain before the inverse transform.
type FixedResampler struct {
	inSize, outSize int
	latency         int
	filterF         []complex128 // one-sided spectrum, length inSize+1
}

// NewFixedResampler builds a plan for exactly inSize -> outSize blocks.
// The antialiasing cutoff is 0.4^(16/inSize) * outSize/inSize when
// downsampling, else 0.4^(16/inSize), matching FftResampler::new.
func NewFixedResampler(inSize, outSize int) *FixedResampler {
	if inSize <= 0 || outSize <= 0 {
		panic("resample: input and output sizes must be positive")
	}
	var cutoff float64
	if inSize > outSize {
		cutoff = math.Pow(0.4, 16/float64(inSize)) * float64(outSize) / float64(inSize)
	} else {
		cutoff = math.Pow(0.4, 16/float64(inSize))
	}

	sinc := dsp.WindowedSincs(inSize, 1, cutoff, dsp.Blackman)[0]
	latency := int(math.Round(float64(argmax(sinc)*outSize) / float64(inSize)))

	filterT := make([]float64, 2*inSize)
	// The forward FFT is unnormalized and fft.IFFT divides by its length
	// (2*outSize), so scaling by outSize/inSize gives unity overall gain.
	norm := float64(inSize) / float64(outSize)
	for i, v := range sinc {
		filterT[i] = v / norm
	}

	return &FixedResampler{
		inSize:  inSize,
		outSize: outSize,
		latency: latency,
		filterF: realFFTOneSided(filterT),
	}
}

func (r *FixedResampler) InputSize() int  { return r.inSize }
func (r *FixedResampler) OutputSize() int { return r.outSize }
func (r *FixedResampler) Latency() int    { return r.latency }

// Resample transforms exactly InputSize() samples into OutputSize() samples.
func (r *FixedResampler) Resample(in []float32) ([]float32, error) {
	if len(in) != r.inSize {
		return nil, fmt.Errorf("resample: expected %d input samples, got %d", r.inSize, len(in))
	}
	inputBuf := make([]float64, 2*r.inSize)
	for i, v := range in {
		inputBuf[i] = float64(v)
	}
	inputF := realFFTOneSided(inputBuf)
	for i := range inputF {
		inputF[i] *= r.filterF[i]
	}

	newLen := r.outSize
	if r.inSize < r.outSize {
		newLen = r.inSize + 1
	}
	outputF := make([]complex128, r.outSize+1)
	copy(outputF[:newLen], inputF[:newLen])

	outputBuf := realIFFTFromOneSided(outputF, 2*r.outSize)
	out := make([]float32, r.outSize)
	for i := 0; i < r.outSize; i++ {
		out[i] = float32(outputBuf[r.latency+i])
	}
	return out, nil
}

func argmax(xs []float64) int {
	best := 0
	for i, v := range xs {
		if v > xs[best] {
			best = i
		}
	}
	return best
}

// realFFTOneSided returns the first len(x)/2+1 bins of the full-spectrum
// FFT of a real-valued signal (the conjugate-symmetric half).
func realFFTOneSided(x []float64) []complex128 {
	full := fft.FFTReal(x)
	n := len(x)
	return full[:n/2+1]
}

// realIFFTFromOneSided mirrors a one-sided spectrum of an n-point real
// signal back to the full n-point conjugate-symmetric spectrum and
// inverse-transforms it, returning the real part.
func realIFFTFromOneSided(half []complex128, n int) []float64 {
	full := make([]complex128, n)
	copy(full, half)
	for k := 1; k < n/2; k++ {
		full[n-k] = cmplx.Conj(half[k])
	}
	inv := fft.IFFT(full)
	out := make([]float64, n)
	for i, c := range inv {
		out[i] = real(c)
	}
	return out
}

// rateKey identifies a streaming resampler plan by sample-rate pair. The
// original used a thread-local HashMap<(u32,u32), ResamplerWithBuffers>
// (src-wasm/src/resample.rs); a plain comparable struct serves the same
// role as a Go map key.
type rateKey struct{ inSR, outSR int }

// StreamResampler resamples arbitrary-length PCM between fixed sample
// rates, chunking the input through a per-rate-pair FixedResampler plan
// and draining its FFT-interpolation latency, matching the RESAMPLERS
// cache and chunk-processing loop from src-wasm/src/resample.rs.
type StreamResampler struct {
	mu    sync.Mutex
	plans map[rateKey]*streamPlan
}

type streamPlan struct {
	resampler *FixedResampler
	chunkIn   int
	chunkOut  int
}

// NewStreamResampler creates an empty plan cache.
func NewStreamResampler() *StreamResampler {
	return &StreamResampler{plans: make(map[rateKey]*streamPlan)}
}

// Process resamples in (sampled at inSR) to outSR in fixed-size chunks,
// draining each chunk's resampler latency and zero-padding the final
// partial chunk, then truncates the concatenated output to
// round(len(in)*outSR/inSR) samples as the original does when flushing
// trailing silent chunks.
func (s *StreamResampler) Process(inSR, outSR int, in []float32) []float32 {
	if inSR == outSR {
		out := make([]float32, len(in))
		copy(out, in)
		return out
	}

	plan := s.planFor(inSR, outSR)
	targetLen := int(math.Round(float64(len(in)) * float64(outSR) / float64(inSR)))

	out := make([]float32, 0, targetLen+plan.chunkOut)
	for start := 0; start < len(in); start += plan.chunkIn {
		end := start + plan.chunkIn
		var block []float32
		if end <= len(in) {
			block = in[start:end]
		} else {
			block = make([]float32, plan.chunkIn)
			copy(block, in[start:])
		}
		chunkOut, err := plan.resampler.Resample(block)
		if err != nil {
			break
		}
		out = append(out, chunkOut...)
	}

	if len(out) > targetLen {
		out = out[:targetLen]
	} else {
		for len(out) < targetLen {
			out = append(out, 0)
		}
	}
	return out
}

func (s *StreamResampler) planFor(inSR, outSR int) *streamPlan {
	key := rateKey{inSR, outSR}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.plans[key]; ok {
		return p
	}
	const chunkIn = 4096
	chunkOut := int(math.Round(float64(chunkIn) * float64(outSR) / float64(inSR)))
	if chunkOut < 1 {
		chunkOut = 1
	}
	p := &streamPlan{
		resampler: NewFixedResampler(chunkIn, chunkOut),
		chunkIn:   chunkIn,
		chunkOut:  chunkOut,
	}
	s.plans[key] = p
	return p
}
