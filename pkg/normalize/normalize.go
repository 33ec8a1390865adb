// Package normalize maps a NormalizeTarget to a gain using cached
// loudness.Stats, applies it, then delegates to guardclip, following
// spec.md §4.7 / original_source/src_backend/backend/dynamics/normalize.rs's
// Normalize trait.
package normalize

import (
	"fmt"
	"math"

	"github.com/alexanderrusich/waveviz/internal/xerrors"
	"github.com/alexanderrusich/waveviz/pkg/guardclip"
	"github.com/alexanderrusich/waveviz/pkg/loudness"
)

// TargetKind selects what the gain is computed against.
type TargetKind int

const (
	Off TargetKind = iota
	LUFS
	RMSdB
	PeakdB
)

// Target is {Off, LUFS(t), RMSdB(t), PeakdB(t)}; Value is unused for Off.
type Target struct {
	Kind  TargetKind
	Value float64
}

// Gain computes the linear gain for target given stats, per spec.md §4.7.
// PeakdB requires Value <= 0.
func Gain(target Target, stats loudness.Stats) (float32, error) {
	switch target.Kind {
	case Off:
		return 1, nil
	case LUFS:
		return float32(math.Pow(10, (target.Value-stats.GlobalLUFS)/20)), nil
	case RMSdB:
		return float32(math.Pow(10, (target.Value-float64(stats.RMSDB))/20)), nil
	case PeakdB:
		if target.Value > 0 {
			return 0, xerrors.New(xerrors.InvalidInput, "normalize.Gain",
				fmt.Errorf("PeakdB target must be <= 0, got %v", target.Value))
		}
		return float32(math.Pow(10, (target.Value-float64(stats.MaxPeakDB))/20)), nil
	default:
		return 0, fmt.Errorf("normalize: unknown target kind %v", target.Kind)
	}
}

// Apply computes the gain for target against stats, multiplies it into
// planar in place, and then invokes the chosen guard-clipping mode.
// Guard clipping may push the resulting LUFS/RMS slightly below target;
// this is accepted, per spec.md §4.7.
func Apply(planar [][]float32, target Target, stats loudness.Stats, mode guardclip.Mode, sampleRate int) (guardclip.Result, error) {
	gain, err := Gain(target, stats)
	if err != nil {
		return guardclip.Result{}, err
	}
	if gain != 1 {
		for _, ch := range planar {
			for i := range ch {
				ch[i] *= gain
			}
		}
	}
	return guardclip.Apply(planar, mode, sampleRate), nil
}
