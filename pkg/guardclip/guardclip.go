// Package guardclip implements the three guard-clipping strategies from
// spec.md §4.6 / original_source/src_backend/backend/dynamics/guardclipping.rs:
// hard clip, a single global gain reduction, and a look-ahead limiter that
// produces a per-sample gain trace. Each returns a Result describing what
// was done, so callers (the UI) can visualize the affected regions.
package guardclip

import (
	"math"

	"github.com/alexanderrusich/waveviz/pkg/pool"
)

// Mode selects a guard-clipping strategy.
type Mode int

const (
	Clip Mode = iota
	ReduceGlobalLevel
	Limiter
)

func (m Mode) String() string {
	switch m {
	case Clip:
		return "clipped"
	case ReduceGlobalLevel:
		return "globally reduced"
	case Limiter:
		return "reduced"
	default:
		return "unknown"
	}
}

// Result is a sum type over the three possible guard-clipping outcomes.
// Exactly one of the three fields is populated, selected by Kind.
type Result struct {
	Kind ResultKind

	// WavBeforeClip holds the pre-clip samples at indices where Clip
	// altered the signal (Kind == ResultWavBeforeClip).
	WavBeforeClip map[int]float32

	// GlobalGain is the scalar gain applied across the whole signal
	// (Kind == ResultGlobalGain).
	GlobalGain float32

	// GainSequence is the per-sample gain trace applied by the limiter
	// (Kind == ResultGainSequence), same length as the signal.
	GainSequence []float32
}

type ResultKind int

const (
	ResultWavBeforeClip ResultKind = iota
	ResultGlobalGain
	ResultGainSequence
)

// Apply mutates planar (one slice per channel, equal length) in place
// according to mode and returns a description of what changed.
func Apply(planar [][]float32, mode Mode, sampleRate int) Result {
	switch mode {
	case ReduceGlobalLevel:
		return reduceGlobalLevel(planar)
	case Limiter:
		return limit(planar, sampleRate)
	default:
		return clip(planar)
	}
}

func clip(planar [][]float32) Result {
	before := make(map[int]float32)
	offset := 0
	for _, ch := range planar {
		for i, v := range ch {
			if v > 1 {
				before[offset+i] = v
				ch[i] = 1
			} else if v < -1 {
				before[offset+i] = v
				ch[i] = -1
			}
		}
		offset += len(ch)
	}
	return Result{Kind: ResultWavBeforeClip, WavBeforeClip: before}
}

func reduceGlobalLevel(planar [][]float32) Result {
	var maxPeak float32
	for _, ch := range planar {
		for _, v := range ch {
			av := v
			if av < 0 {
				av = -av
			}
			if av > maxPeak {
				maxPeak = av
			}
		}
	}
	gain := float32(1)
	if maxPeak > 1 {
		gain = 1 / maxPeak
	}
	if gain != 1 {
		for _, ch := range planar {
			for i := range ch {
				ch[i] *= gain
			}
		}
	}
	return Result{Kind: ResultGlobalGain, GlobalGain: gain}
}

// limit applies a look-ahead peak limiter: the desired instantaneous gain
// (1/|x| when |x|>1, else 1) is computed per sample, propagated backward
// over a look-ahead window so clamping starts before the peak arrives,
// then smoothed with a fast attack / slow release envelope follower to
// avoid audible pumping, and capped at each sample's own desired gain.
func limit(planar [][]float32, sampleRate int) Result {
	n := 0
	if len(planar) > 0 {
		n = len(planar[0])
	}
	if n == 0 {
		return Result{Kind: ResultGainSequence, GainSequence: nil}
	}

	// desired is pure scratch: slidingWindowMin and the smoothing loop read
	// it and nothing keeps a reference afterwards, so it comes from a pool instead of a
	// fresh allocation (pkg/pool, adapted from the teacher's
	// go_optimized/pkg/pool reuse pattern).
	desiredPool := pool.NewTensorPool(n)
	desired := desiredPool.Get()
	for i := range desired {
		desired[i] = 1
	}
	for _, ch := range planar {
		for i, v := range ch {
			av := v
			if av < 0 {
				av = -av
			}
			if av > 1 {
				g := 1 / av
				if g < desired[i] {
					desired[i] = g
				}
			}
		}
	}

	lookAhead := sampleRate / 200 // 5ms
	if lookAhead < 1 {
		lookAhead = 1
	}
	gain := slidingWindowMin(desired, lookAhead)

	attack := envelopeCoeff(1.0, sampleRate)   // ~instant attack
	release := envelopeCoeff(50.0, sampleRate) // 50ms release
	smoothed := make([]float32, n)
	cur := float32(1)
	for i, g := range gain {
		if g < cur {
			cur += (g - cur) * attack
		} else {
			cur += (g - cur) * release
		}
		// The one-pole envelope lags its target; never let it exceed the
		// gain this sample itself needs to stay within [-1, 1].
		if cur > desired[i] {
			cur = desired[i]
		}
		smoothed[i] = cur
	}
	desiredPool.Put(desired)

	for _, ch := range planar {
		for i := range ch {
			ch[i] *= smoothed[i]
		}
	}

	return Result{Kind: ResultGainSequence, GainSequence: smoothed}
}

// slidingWindowMin returns, for each index i, min(xs[i:i+window+1]) — the
// look-ahead gain each sample must already ramp down to before a peak
// up to window samples away arrives. Implemented as a monotonic deque of
// indices so the whole pass is O(n).
func slidingWindowMin(xs []float32, window int) []float32 {
	n := len(xs)
	out := make([]float32, n)
	deque := make([]int, 0, n)
	for i := n - 1; i >= 0; i-- {
		for len(deque) > 0 && xs[deque[len(deque)-1]] >= xs[i] {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		for deque[0] > i+window {
			deque = deque[1:]
		}
		out[i] = xs[deque[0]]
	}
	return out
}

// envelopeCoeff returns the one-pole smoothing coefficient for a given
// time constant in milliseconds at sampleRate.
func envelopeCoeff(ms float64, sampleRate int) float32 {
	if ms <= 0 || sampleRate <= 0 {
		return 1
	}
	tau := ms / 1000 * float64(sampleRate)
	return float32(1 - math.Exp(-1/tau))
}
