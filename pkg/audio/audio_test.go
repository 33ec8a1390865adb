package audio

import (
	"os"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestWAV(t *testing.T, sampleRate, bitDepth, numChans int, frames [][]int) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "*.wav")
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, numChans, 1)
	data := make([]int, 0, len(frames)*numChans)
	for _, frame := range frames {
		data = append(data, frame...)
	}
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{SampleRate: sampleRate, NumChannels: numChans},
		Data:   data,
		SourceBitDepth: bitDepth,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	return f.Name()
}

func TestDecodeMonoWAV(t *testing.T) {
	path := writeTestWAV(t, 48000, 16, 1, [][]int{{0}, {16384}, {-16384}, {32767}})
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	a, err := Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 48000, a.SampleRate)
	require.Len(t, a.Channels, 1)
	require.Len(t, a.Channels[0], 4)
	assert.InDelta(t, 0, a.Channels[0][0], 1e-6)
	assert.InDelta(t, 0.5, a.Channels[0][1], 1e-3)
	assert.InDelta(t, -0.5, a.Channels[0][2], 1e-3)
}

func TestDecodeStereoKeepsBothChannels(t *testing.T) {
	path := writeTestWAV(t, 44100, 16, 2, [][]int{{1000, -1000}, {2000, -2000}})
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	a, err := Decode(f)
	require.NoError(t, err)
	require.Len(t, a.Channels, 2)
	assert.Greater(t, a.Channels[0][0], float32(0))
	assert.Less(t, a.Channels[1][0], float32(0))
}

func TestStatsCachedUntilInvalidated(t *testing.T) {
	path := writeTestWAV(t, 48000, 16, 1, [][]int{{100}, {200}, {300}})
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	a, err := Decode(f)
	require.NoError(t, err)

	s1 := a.Stats()
	a.WithGain(2)
	s2 := a.Stats()
	assert.NotEqual(t, s1.MaxPeak, s2.MaxPeak)
}

func TestDecodeRejectsNonWAV(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "*.txt")
	require.NoError(t, err)
	_, _ = f.WriteString("not a wav file")
	_, _ = f.Seek(0, 0)
	defer f.Close()

	_, err = Decode(f)
	assert.Error(t, err)
}
