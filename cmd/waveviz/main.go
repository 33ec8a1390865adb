// Command waveviz decodes a WAV file, analyzes its loudness, runs the
// STFT/mel/dB spectrogram pipeline, guard-clips or normalizes it to a
// target level, and writes a spectrogram PNG and a waveform PNG for one
// channel. It exercises the decode -> stats -> normalize/guard-clip ->
// STFT -> mel -> dB -> grey -> colormap -> PNG pipeline the library
// packages implement (the spectrogram PNG is scaled by nearest-neighbor
// sampling here, not through pkg/specmipmap),
// following the teacher's go_optimized/cmd/infer and
// frame_generation_go/cmd/generate flag+log+fmt CLI style.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/alexanderrusich/waveviz/pkg/audio"
	"github.com/alexanderrusich/waveviz/pkg/colormap"
	"github.com/alexanderrusich/waveviz/pkg/dsp"
	"github.com/alexanderrusich/waveviz/pkg/guardclip"
	"github.com/alexanderrusich/waveviz/pkg/mel"
	"github.com/alexanderrusich/waveviz/pkg/normalize"
	"github.com/alexanderrusich/waveviz/pkg/stft"
	"github.com/alexanderrusich/waveviz/pkg/wavrender"
)

func main() {
	inPath := flag.String("in", "", "Input WAV file")
	outPrefix := flag.String("out", "./out", "Output path prefix; writes <prefix>.spec.png and <prefix>.wav.png")
	channel := flag.Int("channel", 0, "Channel index to render")
	winMs := flag.Float64("win-ms", 40, "STFT window length in milliseconds")
	overlap := flag.Float64("overlap", 0.75, "STFT hop overlap ratio, e.g. 0.75 means hop = win*(1-0.75)")
	useMel := flag.Bool("mel", true, "Project the spectrogram onto the mel scale")
	dBRange := flag.Float64("db-range", 80, "Dynamic range mapped to the spectrogram's grey scale, in dB")
	normTarget := flag.Float64("normalize-lufs", 0, "Target integrated loudness in LUFS (0 disables normalization)")
	guardMode := flag.String("guard-clip", "limiter", "Guard-clipping mode: clip, reduce, or limiter")
	width := flag.Uint("width", 1024, "Output image width in pixels")
	height := flag.Uint("height", 512, "Output image height in pixels")
	parallel := flag.Bool("parallel", true, "Run the STFT across GOMAXPROCS worker goroutines")

	flag.Parse()

	if *inPath == "" {
		fmt.Println("Usage: waveviz -in <file.wav> [-out ./out] [flags]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*inPath)
	if err != nil {
		log.Fatalf("opening %s: %v", *inPath, err)
	}
	defer f.Close()

	log.Printf("decoding %s...", *inPath)
	track, err := audio.Decode(f)
	if err != nil {
		log.Fatalf("decoding WAV: %v", err)
	}
	if *channel < 0 || *channel >= len(track.Channels) {
		log.Fatalf("channel %d out of range; file has %d channels", *channel, len(track.Channels))
	}

	stats := track.Stats()
	log.Printf("loaded %d channels, %d frames @ %d Hz: %.2f LUFS, peak %.2f dB",
		len(track.Channels), track.NumFrames(), track.SampleRate, stats.GlobalLUFS, stats.MaxPeakDB)

	mode, err := parseGuardMode(*guardMode)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *normTarget != 0 {
		log.Printf("normalizing to %.1f LUFS (%s)...", *normTarget, mode)
		target := normalize.Target{Kind: normalize.LUFS, Value: *normTarget}
		if _, err := normalize.Apply(track.Channels, target, stats, mode, track.SampleRate); err != nil {
			log.Fatalf("normalizing: %v", err)
		}
		track.Invalidate()
		stats = track.Stats()
		log.Printf("post-normalize: %.2f LUFS, peak %.2f dB", stats.GlobalLUFS, stats.MaxPeakDB)
	} else if mode != guardclip.Clip || stats.MaxPeak > 1 {
		guardclip.Apply(track.Channels, mode, track.SampleRate)
		track.Invalidate()
	}

	winLength := int(float64(track.SampleRate) * *winMs / 1000)
	hop := int(float64(winLength) * (1 - *overlap))
	if hop < 1 {
		hop = 1
	}
	nFFT := nextPow2(winLength)
	window := dsp.NormalizedWindow(dsp.Hann, winLength, float64(nFFT))

	log.Printf("running STFT: win=%d hop=%d n_fft=%d parallel=%v", winLength, hop, nFFT, *parallel)
	spec, err := stft.Perform(track.Channels[*channel], winLength, hop, nFFT, window, *parallel)
	if err != nil {
		log.Fatalf("STFT: %v", err)
	}
	mag := stft.Magnitude(spec)

	if *useMel {
		log.Printf("projecting onto mel scale...")
		fb := mel.CalcFilterbankDefault(track.SampleRate, nFFT)
		mag = fb.Apply(mag)
	}

	for _, row := range mag {
		dsp.AmpToDBDefault(row)
	}

	grey := specToGrey(mag, float32(*dBRange))
	specImg := greyToRGBA(grey, int(*width), int(*height))
	if err := savePNG(*outPrefix+".spec.png", specImg); err != nil {
		log.Fatalf("writing spectrogram PNG: %v", err)
	}
	log.Printf("wrote %s.spec.png (%dx%d)", *outPrefix, *width, *height)

	opt := wavrender.DefaultDrawOption()
	wavImg := wavrender.Draw(track.Channels[*channel], int(*width), int(*height), opt)
	if err := savePNG(*outPrefix+".wav.png", wavImg); err != nil {
		log.Fatalf("writing waveform PNG: %v", err)
	}
	log.Printf("wrote %s.wav.png (%dx%d)", *outPrefix, *width, *height)
}

func parseGuardMode(s string) (guardclip.Mode, error) {
	switch s {
	case "clip":
		return guardclip.Clip, nil
	case "reduce":
		return guardclip.ReduceGlobalLevel, nil
	case "limiter":
		return guardclip.Limiter, nil
	default:
		return 0, fmt.Errorf("unknown -guard-clip mode %q (want clip, reduce, or limiter)", s)
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// specToGrey normalizes a dB-scaled magnitude matrix (frames x freqs) to
// [0, 1] over the top dBRange dB, matching display.rs's spec_to_grey.
func specToGrey(magDB [][]float32, dBRange float32) [][]float32 {
	if len(magDB) == 0 {
		return nil
	}
	var maxDB float32 = -1e30
	for _, row := range magDB {
		for _, v := range row {
			if v > maxDB {
				maxDB = v
			}
		}
	}
	minDB := maxDB - dBRange

	nFreq := len(magDB[0])
	grey := make([][]float32, nFreq)
	for f := 0; f < nFreq; f++ {
		row := make([]float32, len(magDB))
		for t := range magDB {
			v := (magDB[t][f] - minDB) / (maxDB - minDB)
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			row[t] = v
		}
		grey[f] = row
	}
	// Flip vertically so low frequencies sit at the bottom of the image.
	for i, j := 0, len(grey)-1; i < j; i, j = i+1, j-1 {
		grey[i], grey[j] = grey[j], grey[i]
	}
	return grey
}

func greyToRGBA(grey [][]float32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	srcH := len(grey)
	srcW := 0
	if srcH > 0 {
		srcW = len(grey[0])
	}
	if srcW == 0 || srcH == 0 {
		return img
	}
	for y := 0; y < height; y++ {
		sy := y * srcH / height
		for x := 0; x < width; x++ {
			sx := x * srcW / width
			rgba := colormap.GreyToRGBA(grey[sy][sx])
			img.SetRGBA(x, y, color.RGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]})
		}
	}
	return img
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
