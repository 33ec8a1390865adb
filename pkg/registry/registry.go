// Package registry owns the set of loaded tracks and the spectrogram
// mipmap store behind them, serializing mutations through a single
// write-lock worker goroutine the way
// original_source/src-tauri/src/interface.rs's WriteLockWorker/
// spawn_write_lock_task serialize track-table writes behind Rust's
// crossbeam_channel + tokio::oneshot. Go has neither crate; a channel of
// closures (buffered, not the original's unbounded queue - Submit callers
// block on their own reply anyway, so a bound just caps how many queued
// mutations can be in flight before a submitter blocks) plus a per-call
// reply channel is the direct idiomatic translation, and matches the
// channel-as-pool idiom the teacher's go_optimized/pkg/parallel.SessionPool
// already uses for session handout.
package registry

import (
	"fmt"
	"sync"

	"github.com/alexanderrusich/waveviz/internal/xerrors"
	"github.com/alexanderrusich/waveviz/pkg/audio"
	"github.com/alexanderrusich/waveviz/pkg/proto"
	"github.com/alexanderrusich/waveviz/pkg/specmipmap"
	"github.com/alexanderrusich/waveviz/pkg/viewport"
	"github.com/alexanderrusich/waveviz/pkg/wavrender"
)

// Track is one loaded audio file: its id, decoded PCM, and the track
// length derived from it.
type Track struct {
	ID    int
	Audio *audio.Audio
}

func (t *Track) trackSec() float64 {
	if t.Audio.SampleRate == 0 {
		return 0
	}
	return float64(t.Audio.NumFrames()) / float64(t.Audio.SampleRate)
}

// Registry holds every loaded track plus its spectrogram mipmaps. Reads
// run inline (DrawWav and Track take the read lock directly; Draw reads
// through the mipmap store's own lock); mutations (AddTrack,
// RemoveTrack) go through Submit so they execute one-at-a-time on the
// write-lock worker, ordered with respect to each other.
type Registry struct {
	mu     sync.RWMutex
	tracks map[int]*Track

	Mipmaps *specmipmap.Store

	jobs chan func()
}

// NewRegistry starts the write-lock worker and returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{
		tracks:  make(map[int]*Track),
		Mipmaps: specmipmap.NewStore(),
		jobs:    make(chan func(), 256),
	}
	go r.runWriteLockWorker()
	return r
}

func (r *Registry) runWriteLockWorker() {
	for job := range r.jobs {
		job()
	}
}

type submitResult[T any] struct {
	val T
	err error
}

// Submit posts f to the write-lock worker and blocks until it runs,
// returning its result. Callers use this for any registry mutation so
// that concurrent AddTrack/RemoveTrack calls serialize the same way a
// single writer thread would.
func Submit[T any](r *Registry, f func() (T, error)) (T, error) {
	reply := make(chan submitResult[T], 1)
	r.jobs <- func() {
		v, err := f()
		reply <- submitResult[T]{v, err}
	}
	res := <-reply
	return res.val, res.err
}

// AddTrack registers (or replaces) a decoded track under id.
func (r *Registry) AddTrack(id int, a *audio.Audio) error {
	_, err := Submit(r, func() (struct{}, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.tracks[id] = &Track{ID: id, Audio: a}
		return struct{}{}, nil
	})
	return err
}

// RemoveTrack drops a track and evicts every channel's mipmap for it.
func (r *Registry) RemoveTrack(id int) error {
	_, err := Submit(r, func() (struct{}, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		t, ok := r.tracks[id]
		if !ok {
			return struct{}{}, nil
		}
		for ch := range t.Audio.Channels {
			r.Mipmaps.Remove(proto.FormatIDCh(id, ch))
		}
		delete(r.tracks, id)
		return struct{}{}, nil
	})
	return err
}

// Track returns the loaded track for id, or an xerrors.ResourceMissing error.
func (r *Registry) Track(id int) (*Track, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tracks[id]
	if !ok {
		return nil, xerrors.New(xerrors.ResourceMissing, "registry.Track", fmt.Errorf("track %d is not loaded", id))
	}
	return t, nil
}

// Draw renders a spectrogram tile for idCh at the requested viewport,
// reading whatever mipmap resolution args.Width/args.Height ask for.
func (r *Registry) Draw(idCh string, args viewport.SliceArgs, startSec float64, isLowQuality bool) (proto.Spectrogram, error) {
	grey, ok := r.Mipmaps.Get(idCh, args.Width, args.Height)
	if !ok {
		return proto.Spectrogram{}, xerrors.New(xerrors.ResourceMissing, "registry.Draw", fmt.Errorf("no spectrogram loaded for %q", idCh))
	}
	return proto.Spectrogram{
		Buf:          r.Mipmaps.SerializeTile(grey),
		Width:        uint32(args.Width),
		Height:       uint32(args.Height),
		StartSec:     startSec,
		PxPerSec:     args.PxPerSec,
		LeftMargin:   args.LeftMargin,
		RightMargin:  args.RightMargin,
		TopMargin:    args.TopMargin,
		BottomMargin: args.BottomMargin,
		IsLowQuality: isLowQuality,
	}, nil
}

// DrawWav renders a waveform tile for one channel of id, over samples
// [startFrame, startFrame+numFrames), at width x height pixels.
func (r *Registry) DrawWav(id, ch int, startFrame, numFrames, width, height int, opt wavrender.DrawOptionForWav) (proto.WavImage, error) {
	r.mu.RLock()
	t, ok := r.tracks[id]
	r.mu.RUnlock()
	if !ok {
		return proto.WavImage{}, xerrors.New(xerrors.ResourceMissing, "registry.DrawWav", fmt.Errorf("track %d is not loaded", id))
	}
	if ch < 0 || ch >= len(t.Audio.Channels) {
		return proto.WavImage{}, xerrors.New(xerrors.InvalidInput, "registry.DrawWav", fmt.Errorf("channel %d out of range", ch))
	}

	samples := t.Audio.Channels[ch]
	end := startFrame + numFrames
	if startFrame < 0 {
		startFrame = 0
	}
	if end > len(samples) {
		end = len(samples)
	}
	if startFrame >= end {
		img := wavrender.Draw(nil, width, height, opt)
		return proto.WavImage{Buf: img.Pix, Width: uint32(width), Height: uint32(height)}, nil
	}

	img := wavrender.Draw(samples[startFrame:end], width, height, opt)
	return proto.WavImage{Buf: img.Pix, Width: uint32(width), Height: uint32(height)}, nil
}
