package mel

import "math"

// ToHzLegacy and FromHzLegacy follow the librosa-slope approximation used
// by the teacher's simple_inference_go/pkg/mel/processor.go (buildMelBasis,
// freqToMel/melToFreq). Kept only as a documented divergent path; FromHz and
// ToHz in mel.go are authoritative for new code. See SPEC_FULL.md §9.
func FromHzLegacy(freq float64) float64 {
	return 2595 * math.Log10(1+freq/700)
}

func ToHzLegacy(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// CalcFilterbankLegacy builds a triangular mel filterbank using the
// librosa-slope mel scale instead of the HTK/log-step scale, mirroring
// buildMelBasis in the teacher's processor.go.
func CalcFilterbankLegacy(sr int, nFFT, nMel int, fmin, fmax float64) Filterbank {
	nFreq := nFFT/2 + 1
	linearFreqs := linspace(0, float64(sr)/2, nFreq)
	melFreqs := linspace(FromHzLegacy(fmin), FromHzLegacy(fmax), nMel+2)
	for i := range melFreqs {
		melFreqs[i] = ToHzLegacy(melFreqs[i])
	}

	w := make([][]float64, nFreq)
	for i := range w {
		w[i] = make([]float64, nMel)
	}
	for m := 0; m < nMel; m++ {
		left, center, right := melFreqs[m], melFreqs[m+1], melFreqs[m+2]
		for f := 0; f < nFreq; f++ {
			freq := linearFreqs[f]
			var val float64
			switch {
			case freq > left && freq <= center:
				val = (freq - left) / (center - left)
			case freq > center && freq < right:
				val = (right - freq) / (right - center)
			}
			w[f][m] = val
		}
	}
	return Filterbank{NFreq: nFreq, NMel: nMel, W: w}
}
