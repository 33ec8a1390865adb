// Package loudness computes EBU R128 integrated loudness (LUFS), RMS dB
// and peak dB across channels, mirroring the AudioStats produced by
// original_source/src_backend/backend/stats.rs's StatCalculator (there a
// thin wrapper over the Rust ebur128 crate). No Go binding for ITU-R
// BS.1770/EBU R128 exists anywhere in the example pack, so the K-weighting
// filter, block gating and integrated-loudness gate are hand-implemented
// against the published ITU-R BS.1770-4 coefficients using only the
// standard math package; see DESIGN.md.
package loudness

import "math"

// Stats mirrors original_source's AudioStats.
type Stats struct {
	GlobalLUFS float64
	RMSDB      float32
	MaxPeak    float32
	MaxPeakDB  float32
}

const (
	absoluteGateLUFS = -70.0
	relativeGateDB   = -10.0
	blockSeconds     = 0.4
	blockOverlap     = 0.75
)

// Analyzer holds the sample rate needed to derive K-weighting coefficients
// and block sizes; it is stateless otherwise and safe for concurrent use.
type Analyzer struct {
	SampleRate int
}

// NewAnalyzer constructs an Analyzer for the given sample rate.
func NewAnalyzer(sampleRate int) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

// Calc computes Stats over planar (per-channel) PCM, each channel the
// same length. Channels beyond 2 are summed with unity weight, matching
// ebur128's default channel-map behavior for anything other than
// stereo/mono.
func (a *Analyzer) Calc(planar [][]float32) Stats {
	if len(planar) == 0 || len(planar[0]) == 0 {
		return Stats{GlobalLUFS: math.Inf(-1)}
	}

	filtered := make([][]float64, len(planar))
	stage1, stage2 := kWeightingCoeffs(float64(a.SampleRate))
	for ch, samples := range planar {
		x := make([]float64, len(samples))
		for i, v := range samples {
			x[i] = float64(v)
		}
		filtered[ch] = biquad(biquad(x, stage1), stage2)
	}

	blockSize := int(blockSeconds * float64(a.SampleRate))
	hop := int(float64(blockSize) * (1 - blockOverlap))
	if blockSize <= 0 || hop <= 0 {
		blockSize = len(planar[0])
		hop = blockSize
	}

	var blockLoudness []float64
	n := len(filtered[0])
	for start := 0; start+blockSize <= n; start += hop {
		var sum float64
		for _, ch := range filtered {
			var sq float64
			for _, v := range ch[start : start+blockSize] {
				sq += v * v
			}
			sum += sq / float64(blockSize)
		}
		if sum > 0 {
			blockLoudness = append(blockLoudness, -0.691+10*math.Log10(sum))
		}
	}

	globalLUFS := gatedMean(blockLoudness)

	var maxPeak float32
	var sumSq float64
	var count int
	for _, ch := range planar {
		for _, v := range ch {
			av := v
			if av < 0 {
				av = -av
			}
			if av > maxPeak {
				maxPeak = av
			}
			sumSq += float64(v) * float64(v)
			count++
		}
	}
	rms := float32(0)
	if count > 0 {
		rms = float32(math.Sqrt(sumSq / float64(count)))
	}

	return Stats{
		GlobalLUFS: globalLUFS,
		RMSDB:      ampToDB(rms),
		MaxPeak:    maxPeak,
		MaxPeakDB:  ampToDB(maxPeak),
	}
}

func ampToDB(amp float32) float32 {
	a := float64(amp)
	if a <= 0 {
		return float32(math.Log10(1e-18) * 20)
	}
	return float32(20 * math.Log10(a))
}

// gatedMean applies the two-stage EBU R128 gate: drop blocks below the
// absolute threshold, then drop blocks below (relativeMean - 10dB) where
// relativeMean is computed from the absolute-gated set.
func gatedMean(blockLoudness []float64) float64 {
	if len(blockLoudness) == 0 {
		return math.Inf(-1)
	}
	var absGated []float64
	for _, l := range blockLoudness {
		if l > absoluteGateLUFS {
			absGated = append(absGated, l)
		}
	}
	if len(absGated) == 0 {
		return math.Inf(-1)
	}
	relMean := meanEnergy(absGated)
	threshold := relMean + relativeGateDB

	var relGated []float64
	for _, l := range absGated {
		if l > threshold {
			relGated = append(relGated, l)
		}
	}
	if len(relGated) == 0 {
		return relMean
	}
	return meanEnergy(relGated)
}

func meanEnergy(loudnessLUFS []float64) float64 {
	var sum float64
	for _, l := range loudnessLUFS {
		sum += math.Pow(10, (l+0.691)/10)
	}
	mean := sum / float64(len(loudnessLUFS))
	return -0.691 + 10*math.Log10(mean)
}

// biquadCoeffs is a direct-form-II transposed biquad {b0,b1,b2,a1,a2}
// (a0 normalized to 1).
type biquadCoeffs struct{ b0, b1, b2, a1, a2 float64 }

func biquad(x []float64, c biquadCoeffs) []float64 {
	out := make([]float64, len(x))
	var z1, z2 float64
	for i, v := range x {
		y := c.b0*v + z1
		z1 = c.b1*v - c.a1*y + z2
		z2 = c.b2*v - c.a2*y
		out[i] = y
	}
	return out
}

// kWeightingCoeffs derives the ITU-R BS.1770-4 pre-filter (high shelf) and
// RLB weighting filter (high pass) for the given sample rate, following
// the standard's published analog-prototype-to-digital design (the same
// two-stage cascade ebur128 and every BS.1770 implementation uses).
func kWeightingCoeffs(sampleRate float64) (stage1, stage2 biquadCoeffs) {
	// Stage 1: high-shelf, +4dB above ~1.5kHz.
	fc1 := 1681.9744509555319
	g1 := 3.99984385397
	q1 := 0.7071752369554193
	stage1 = shelfCoeffs(fc1, g1, q1, sampleRate)

	// Stage 2: RLB high-pass, -3dB at ~38Hz.
	fc2 := 38.13547087613982
	q2 := 0.5003270373238773
	stage2 = highpassCoeffs(fc2, q2, sampleRate)
	return
}

func shelfCoeffs(fc, gainDB, q, sr float64) biquadCoeffs {
	k := math.Tan(math.Pi * fc / sr)
	vh := math.Pow(10, gainDB/20)
	vb := math.Pow(vh, 0.4996667741545416)
	a0 := 1 + k/q + k*k
	b0 := (vh + vb*k/q + k*k) / a0
	b1 := 2 * (k*k - vh) / a0
	b2 := (vh - vb*k/q + k*k) / a0
	a1 := 2 * (k*k - 1) / a0
	a2 := (1 - k/q + k*k) / a0
	return biquadCoeffs{b0: b0, b1: b1, b2: b2, a1: a1, a2: a2}
}

func highpassCoeffs(fc, q, sr float64) biquadCoeffs {
	k := math.Tan(math.Pi * fc / sr)
	a0 := 1 + k/q + k*k
	b0 := 1.0 / a0
	b1 := -2.0 / a0
	b2 := 1.0 / a0
	a1 := 2 * (k*k - 1) / a0
	a2 := (1 - k/q + k*k) / a0
	return biquadCoeffs{b0: b0, b1: b1, b2: b2, a1: a1, a2: a2}
}
