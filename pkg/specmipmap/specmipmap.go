// Package specmipmap is the process-wide store of per-(track,channel)
// full-resolution spectrogram grey images plus on-demand resized copies,
// ported from thesia-wasm-renderer/src/spec_mipmap.rs's SPEC_MIPMAPS
// RwLock<HashMap<String, Mipmaps>> and its u16-quantized storage format.
//
// The original resizes via fast_image_resize's Lanczos3 kernel operating
// directly on 16-bit pixels. fast_image_resize has no Go binding anywhere
// in the example pack, so resizing instead goes through
// github.com/disintegration/imaging (imaging.Lanczos) via an image.Gray16
// adapter, the same resize library the teacher's
// frame_generation_go/pkg/imageproc already depends on for photo
// resizing, generalized here to single-channel 16-bit grey dB images.
// imaging's destination representation is 8-bit NRGBA internally, so a
// resize loses precision down to 8 significant bits before being
// expanded back to the u16 storage range (v8*257) — exact only when the
// requested size equals the original, which Get short-circuits. See
// DESIGN.md.
package specmipmap

import (
	"encoding/binary"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/alexanderrusich/waveviz/pkg/pool"
)

// Mipmap owns one track/channel's full-resolution grey image, quantized
// to u16 the way the original stores `Array2<pixels::U16>`, and serves
// resized copies on demand. Safe for concurrent use.
type Mipmap struct {
	mu                    sync.RWMutex
	orig                  []uint16
	origWidth, origHeight int
}

// NewMipmap quantizes a [0,1]-ranged grey image (rows = height, cols =
// width) to u16 and stores it as the mipmap's original-resolution level.
func NewMipmap(grey [][]float32) *Mipmap {
	height := len(grey)
	width := 0
	if height > 0 {
		width = len(grey[0])
	}
	orig := make([]uint16, height*width)
	for y, row := range grey {
		for x, v := range row {
			orig[y*width+x] = f32ToU16(v)
		}
	}
	return &Mipmap{orig: orig, origWidth: width, origHeight: height}
}

// Get returns the grey image resized to width x height, in [0,1] f32.
// Passthrough (no resize) when the requested size matches the original.
func (m *Mipmap) Get(width, height int) [][]float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if width == m.origWidth && height == m.origHeight {
		return u16ToGrey(m.orig, m.origWidth, m.origHeight)
	}
	resized := resizeViaImaging(m.orig, m.origWidth, m.origHeight, width, height)
	return u16ToGrey(resized, width, height)
}

// Dimensions returns the stored original resolution.
func (m *Mipmap) Dimensions() (width, height int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.origWidth, m.origHeight
}

func f32ToU16(x float32) uint16 {
	if x < 0 {
		x = 0
	}
	if x > 1 {
		x = 1
	}
	return uint16(x * 65535)
}

func u16ToGrey(pixels []uint16, width, height int) [][]float32 {
	out := make([][]float32, height)
	for y := 0; y < height; y++ {
		row := make([]float32, width)
		for x := 0; x < width; x++ {
			row[x] = float32(pixels[y*width+x]) / 65535
		}
		out[y] = row
	}
	return out
}

// resizeViaImaging resamples a row-major u16 grey image through
// imaging.Resize with a Lanczos kernel, matching the convolution filter
// family fast_image_resize uses for mipmap levels.
func resizeViaImaging(src []uint16, srcW, srcH, dstW, dstH int) []uint16 {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return make([]uint16, max(dstW, 0)*max(dstH, 0))
	}

	gray := image.NewGray16(image.Rect(0, 0, srcW, srcH))
	for y := 0; y < srcH; y++ {
		for x := 0; x < srcW; x++ {
			gray.SetGray16(x, y, color.Gray16{Y: src[y*srcW+x]})
		}
	}

	resized := imaging.Resize(gray, dstW, dstH, imaging.Lanczos)

	out := make([]uint16, dstW*dstH)
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			r, _, _, _ := resized.At(x, y).RGBA()
			out[y*dstW+x] = uint16(r)
		}
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Store is the process-wide (track,channel)-keyed mipmap registry,
// matching SPEC_MIPMAPS's RwLock<HashMap<String, Mipmaps>>. idCh keys use
// pkg/proto.FormatIDCh.
type Store struct {
	mu      sync.RWMutex
	mipmaps map[string]*Mipmap

	bufMu    sync.Mutex
	bufPools map[int]*pool.BytePool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		mipmaps:  make(map[string]*Mipmap),
		bufPools: make(map[int]*pool.BytePool),
	}
}

// bytePool returns (creating if needed) the byte pool for payloads of the
// given size. A user scrolling a fixed-size viewport re-requests the same
// width x height, and so the same serialized byte length, on every redraw,
// which is exactly the access pattern a size-keyed pool reuses.
func (s *Store) bytePool(size int) *pool.BytePool {
	s.bufMu.Lock()
	defer s.bufMu.Unlock()
	p, ok := s.bufPools[size]
	if !ok {
		p = pool.NewBytePool(size)
		s.bufPools[size] = p
	}
	return p
}

// Set replaces (or inserts) the mipmap for idCh.
func (s *Store) Set(idCh string, grey [][]float32) {
	m := NewMipmap(grey)
	s.mu.Lock()
	s.mipmaps[idCh] = m
	s.mu.Unlock()
}

// Get returns a resized grey image for idCh, or (nil, false) if idCh is
// not loaded yet; registry.Draw reports that case as ResourceMissing.
func (s *Store) Get(idCh string, width, height int) ([][]float32, bool) {
	s.mu.RLock()
	m, ok := s.mipmaps[idCh]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return m.Get(width, height), true
}

// Remove evicts idCh's mipmap, e.g. when its track is removed.
func (s *Store) Remove(idCh string) {
	s.mu.Lock()
	delete(s.mipmaps, idCh)
	s.mu.Unlock()
}

// Serialize packs a grey image as little-endian u32 height, u32 width,
// then row-major f32 pixels, matching serialize_2d_array.
func Serialize(grey [][]float32) []byte {
	buf := make([]byte, serializedSize(grey))
	fillSerialized(buf, grey)
	return buf
}

// SerializeTile is Serialize drawing its output buffer from the store's
// byte pool for this payload size instead of allocating fresh every call.
// Callers done with the returned bytes (e.g. once written out to a
// frontend) may return it via ReleaseSerialized so the next same-size
// tile reuses it; skipping that call is harmless, it just forgoes reuse.
func (s *Store) SerializeTile(grey [][]float32) []byte {
	buf := s.bytePool(serializedSize(grey)).Get()
	fillSerialized(buf, grey)
	return buf
}

// ReleaseSerialized returns a buffer previously obtained from
// SerializeTile to its size-keyed pool.
func (s *Store) ReleaseSerialized(buf []byte) {
	s.bytePool(len(buf)).Put(buf)
}

func serializedSize(grey [][]float32) int {
	height := len(grey)
	width := 0
	if height > 0 {
		width = len(grey[0])
	}
	return 8 + 4*width*height
}

func fillSerialized(buf []byte, grey [][]float32) {
	height := len(grey)
	width := 0
	if height > 0 {
		width = len(grey[0])
	}
	binary.LittleEndian.PutUint32(buf[0:4], uint32(height))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(width))
	off := 8
	for _, row := range grey {
		for _, v := range row {
			binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
			off += 4
		}
	}
}
