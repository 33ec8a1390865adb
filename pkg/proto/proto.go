// Package proto holds the wire-facing structs exchanged with a frontend:
// user settings, player state, and the rendered image payloads, plus the
// id_ch identifier codec. Ported from
// original_source/src_backend/interface.rs and src-tauri/src/interface.rs.
package proto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderrusich/waveviz/internal/xerrors"
	"github.com/alexanderrusich/waveviz/pkg/guardclip"
)

// FreqScale selects linear or mel frequency axis for a spectrogram.
type FreqScale int

const (
	Linear FreqScale = iota
	Mel
)

// SpecSetting configures STFT/mel analysis for a track; n_fft is derived
// by the caller as the next power of two >= WinLength.
type SpecSetting struct {
	WinMs     float32
	TOverlap  uint32
	FOverlap  uint32
	FreqScale FreqScale
	DBRange   float64
}

// UserSettings are the per-session controls shared across all tracks.
type UserSettings struct {
	SpecSetting         SpecSetting
	Blend               float64
	DBRange             float64
	CommonGuardClipping guardclip.Mode
	CommonNormalize     interface{}
}

// PlayerState reports transport position and the last playback error, if
// any.
type PlayerState struct {
	IsPlaying   bool
	PositionSec float64
	Err         string
}

// Spectrogram is a rendered spectrogram tile: a little-endian grey-image
// byte buffer (see pkg/specmipmap.Serialize) plus the viewport geometry
// used to produce it.
type Spectrogram struct {
	Buf          []byte
	Width        uint32
	Height       uint32
	StartSec     float64
	PxPerSec     float64
	LeftMargin   float64
	RightMargin  float64
	TopMargin    float64
	BottomMargin float64
	IsLowQuality bool
}

// WavImage is a rendered waveform tile: packed RGBA bytes, width*height*4
// long.
type WavImage struct {
	Buf    []byte
	Width  uint32
	Height uint32
}

// WavMetadata summarizes a decoded track for the frontend.
type WavMetadata struct {
	Length     uint32
	SampleRate uint32
	IsClipped  bool
}

// FormatIDCh renders the "{id}_{ch}" identifier form.
func FormatIDCh(id, ch int) string {
	return fmt.Sprintf("%d_%d", id, ch)
}

// ParseIDCh parses the "{id}_{ch}" identifier form, requiring exactly one
// underscore separator and two non-negative integers.
func ParseIDCh(s string) (id, ch int, err error) {
	parts := strings.Split(s, "_")
	if len(parts) != 2 {
		return 0, 0, xerrors.New(xerrors.InvalidInput, "proto.ParseIDCh",
			fmt.Errorf("%q is not of the form \"{id}_{ch}\"", s))
	}
	idVal, err1 := strconv.ParseUint(parts[0], 10, 64)
	chVal, err2 := strconv.ParseUint(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, xerrors.New(xerrors.InvalidInput, "proto.ParseIDCh",
			fmt.Errorf("%q is not of the form \"{unsigned_int}_{unsigned_int}\"", s))
	}
	return int(idVal), int(chVal), nil
}
