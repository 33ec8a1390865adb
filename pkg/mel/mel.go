// Package mel implements mel-scale <-> Hz conversion and mel-filterbank
// construction, following the HTK-style formula used by
// original_source/src_backend/backend/spectrogram/mel.rs — chosen as the
// authoritative variant per spec.md §9's instruction to pick the later,
// EBU-R128-era backend over the near-duplicate modules. See legacy.go for
// the teacher's simpler librosa-slope formula, kept only as a documented
// divergent path.
package mel

import "math"

const (
	minLogHz    = 1000.0
	minLogMel   = 15.0
	logStep     = 0.06875177742094912 // ln(6.4) / 27
	linearScale = 200.0 / 3.0
)

// ToHz converts a mel value to Hz.
func ToHz(mel float64) float64 {
	if mel < minLogMel {
		return linearScale * mel
	}
	return minLogHz * math.Exp(logStep*(mel-minLogMel))
}

// FromHz converts a Hz value to mel.
func FromHz(freq float64) float64 {
	if freq < minLogHz {
		return freq / linearScale
	}
	return minLogMel + math.Log(freq/minLogHz)/logStep
}

// Filterbank is an (nFreq x nMel) triangular mel filterbank: Filterbank[f][m].
type Filterbank struct {
	NFreq int
	NMel  int
	W     [][]float64 // NFreq rows, NMel cols
}

// CalcFilterbank places nMel+2 mel-spaced centers between fmin and
// fmax (defaulting to sr/2), converts to Hz, and assigns triangular
// weights over linear frequency bins. When doNorm, each column (mel band)
// is divided by its sum, clamped to machine epsilon.
func CalcFilterbank(sr int, nFFT, nMel int, fmin float64, fmax *float64, doNorm bool) Filterbank {
	if nFFT%2 != 0 {
		panic("mel: n_fft must be even")
	}
	if nMel == 0 {
		panic("mel: n_mel must be nonzero")
	}
	fNyquist := float64(sr) / 2
	fMax := fNyquist
	if fmax != nil {
		fMax = *fmax
	}
	nFreq := nFFT/2 + 1

	linearFreqs := linspace(0, fNyquist, nFreq)
	melFreqs := linspace(FromHz(fmin), FromHz(fMax), nMel+2)
	for i := range melFreqs {
		melFreqs[i] = ToHz(melFreqs[i])
	}

	w := make([][]float64, nFreq)
	for i := range w {
		w[i] = make([]float64, nMel)
	}

	for m := 0; m < nMel; m++ {
		left, center, right := melFreqs[m], melFreqs[m+1], melFreqs[m+2]
		var colSum float64
		for f := 0; f < nFreq; f++ {
			freq := linearFreqs[f]
			var val float64
			switch {
			case freq <= left:
				val = 0
			case freq > left && freq < center:
				val = (freq - left) / (center - left)
			case freq == center:
				val = 1
			case freq > center && freq < right:
				val = (right - freq) / (right - center)
			default:
				val = 0
			}
			w[f][m] = val
			colSum += val
		}
		if doNorm {
			if colSum < epsilon {
				colSum = epsilon
			}
			for f := 0; f < nFreq; f++ {
				w[f][m] /= colSum
			}
		}
	}
	return Filterbank{NFreq: nFreq, NMel: nMel, W: w}
}

const epsilon = 2.220446049250313e-16

// CalcFilterbankDefault auto-tunes the mel band count: start with
// n_mel = min(n_fft/2+1, 2*from_hz(sr/2)/from_hz(sr/n_fft) - 1), then
// decrement until every column sum is strictly positive.
func CalcFilterbankDefault(sr int, nFFT int) Filterbank {
	nMel := int(2*FromHz(float64(sr)/2)/FromHz(float64(sr)/float64(nFFT)) - 1)
	if max := nFFT/2 + 1; nMel > max {
		nMel = max
	}
	for {
		fb := CalcFilterbank(sr, nFFT, nMel, 0, nil, true)
		if allColumnsPositive(fb) {
			return fb
		}
		nMel--
	}
}

func allColumnsPositive(fb Filterbank) bool {
	sums := make([]float64, fb.NMel)
	for _, row := range fb.W {
		for m, v := range row {
			sums[m] += v
		}
	}
	for _, s := range sums {
		if s <= 0 {
			return false
		}
	}
	return true
}

func linspace(start, end float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = start + step*float64(i)
	}
	return out
}

// Apply projects a linear-frequency magnitude spectrogram (frames x
// nFreq) onto the mel scale, returning (frames x nMel).
func (fb Filterbank) Apply(spec [][]float32) [][]float32 {
	out := make([][]float32, len(spec))
	for t, row := range spec {
		melRow := make([]float32, fb.NMel)
		for f, mag := range row {
			if f >= fb.NFreq {
				break
			}
			wf := fb.W[f]
			for m := 0; m < fb.NMel; m++ {
				melRow[m] += float32(wf[m]) * mag
			}
		}
		out[t] = melRow
	}
	return out
}
