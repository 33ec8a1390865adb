// Package audio owns decoded PCM for one track: planar per-channel
// float32 samples, the sample rate, and a lazily computed, cache-invalidated
// loudness.Stats. Decode follows the bit-depth normalization and
// go-audio/wav usage of the teacher's
// simple_inference_go/pkg/mel/processor.go LoadWAV, generalized to keep
// every channel instead of collapsing to the first.
package audio

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-audio/wav"

	"github.com/alexanderrusich/waveviz/internal/xerrors"
	"github.com/alexanderrusich/waveviz/pkg/loudness"
)

// Audio holds one track's decoded PCM plus its cached stats.
type Audio struct {
	SampleRate int
	Channels   [][]float32 // planar, one slice per channel, equal length

	mu    sync.Mutex
	stats *loudness.Stats
}

// Decode reads a WAV stream via go-audio/wav, normalizing integer PCM to
// [-1, 1] by bit depth, and returns one planar float32 slice per channel.
func Decode(r io.Reader) (*Audio, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, xerrors.New(xerrors.DecodeFailure, "audio.Decode", fmt.Errorf("not a valid WAV stream"))
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, xerrors.New(xerrors.DecodeFailure, "audio.Decode", fmt.Errorf("reading PCM data: %w", err))
	}

	numChans := int(decoder.NumChans)
	if numChans == 0 {
		return nil, xerrors.New(xerrors.DecodeFailure, "audio.Decode", fmt.Errorf("WAV file declares zero channels"))
	}
	numFrames := buf.NumFrames()
	intData := buf.AsIntBuffer().Data

	var maxVal float64
	switch decoder.BitDepth {
	case 8:
		maxVal = 128.0
	case 16:
		maxVal = 32768.0
	case 24:
		maxVal = 8388608.0
	case 32:
		maxVal = 2147483648.0
	default:
		maxVal = 32768.0
	}

	channels := make([][]float32, numChans)
	for c := range channels {
		channels[c] = make([]float32, numFrames)
	}
	for i := 0; i < numFrames; i++ {
		base := i * numChans
		for c := 0; c < numChans; c++ {
			idx := base + c
			if idx < len(intData) {
				channels[c][i] = float32(float64(intData[idx]) / maxVal)
			}
		}
	}

	return &Audio{
		SampleRate: int(decoder.SampleRate),
		Channels:   channels,
	}, nil
}

// Stats returns cached loudness stats, computing them on first access.
func (a *Audio) Stats() loudness.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stats == nil {
		s := loudness.NewAnalyzer(a.SampleRate).Calc(a.Channels)
		a.stats = &s
	}
	return *a.stats
}

// Invalidate drops the cached stats; call after any in-place modification
// of Channels (gain, guard clipping, normalization).
func (a *Audio) Invalidate() {
	a.mu.Lock()
	a.stats = nil
	a.mu.Unlock()
}

// WithGain multiplies every channel by gain in place and invalidates the
// cached stats.
func (a *Audio) WithGain(gain float32) {
	if gain == 1 {
		return
	}
	for _, ch := range a.Channels {
		for i := range ch {
			ch[i] *= gain
		}
	}
	a.Invalidate()
}

// NumFrames returns the per-channel sample count, or 0 if there are no
// channels.
func (a *Audio) NumFrames() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}
