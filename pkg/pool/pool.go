// Package pool provides sync.Pool-backed reuse of the buffers that get
// allocated and discarded on every STFT frame, limiter pass, waveform draw
// and wire serialization call: float32 and float64 scratch slices, RGBA
// tiles and raw byte buffers. Adapted from the teacher's
// go_optimized/pkg/pool/pool.go, which pooled float32 tensors, images and
// byte buffers for ONNX tensors and inference frames.
package pool

import (
	"image"
	"sync"
)

// TensorPool hands out zeroed []float32 of a fixed size, e.g. one STFT
// frame or one mel row.
type TensorPool struct {
	pool sync.Pool
	size int
}

// NewTensorPool creates a pool of float32 slices of the given size.
func NewTensorPool(size int) *TensorPool {
	return &TensorPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float32, size)
			},
		},
		size: size,
	}
}

func (p *TensorPool) Size() int { return p.size }

// Get retrieves a tensor from the pool.
func (p *TensorPool) Get() []float32 {
	return p.pool.Get().([]float32)
}

// Put zeroes and returns a tensor to the pool.
func (p *TensorPool) Put(tensor []float32) {
	for i := range tensor {
		tensor[i] = 0
	}
	p.pool.Put(tensor)
}

// Float64Pool hands out zeroed []float64 of a fixed size, used for the
// per-frame scratch buffer stft.Perform feeds to the FFT.
type Float64Pool struct {
	pool sync.Pool
	size int
}

// NewFloat64Pool creates a pool of float64 slices of the given size.
func NewFloat64Pool(size int) *Float64Pool {
	return &Float64Pool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		},
		size: size,
	}
}

func (p *Float64Pool) Size() int { return p.size }

// Get retrieves a tensor from the pool.
func (p *Float64Pool) Get() []float64 {
	return p.pool.Get().([]float64)
}

// Put zeroes and returns a tensor to the pool.
func (p *Float64Pool) Put(tensor []float64) {
	for i := range tensor {
		tensor[i] = 0
	}
	p.pool.Put(tensor)
}

// ImagePool hands out RGBA images of a fixed size, used for rendered
// spectrogram and waveform tiles.
type ImagePool struct {
	pool   sync.Pool
	width  int
	height int
}

// NewImagePool creates a pool of width x height RGBA images.
func NewImagePool(width, height int) *ImagePool {
	return &ImagePool{
		pool: sync.Pool{
			New: func() interface{} {
				return image.NewRGBA(image.Rect(0, 0, width, height))
			},
		},
		width:  width,
		height: height,
	}
}

// Get retrieves an image from the pool. Callers must overwrite every
// pixel before reading; Put does not clear it.
func (p *ImagePool) Get() *image.RGBA {
	return p.pool.Get().(*image.RGBA)
}

// Put returns an image to the pool without clearing it (the next Get
// always overwrites every pixel in the rendering paths this pool serves).
func (p *ImagePool) Put(img *image.RGBA) {
	p.pool.Put(img)
}

// BytePool hands out fixed-size byte slices, used for mipmap wire
// serialization buffers.
type BytePool struct {
	pool sync.Pool
	size int
}

// NewBytePool creates a pool of byte slices of the given size.
func NewBytePool(size int) *BytePool {
	return &BytePool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]byte, size)
			},
		},
		size: size,
	}
}

func (p *BytePool) Size() int { return p.size }

// Get retrieves a byte slice from the pool.
func (p *BytePool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put returns a byte slice to the pool.
func (p *BytePool) Put(buf []byte) {
	p.pool.Put(buf)
}
