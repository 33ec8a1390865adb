package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTensorPoolGetPutClears(t *testing.T) {
	p := NewTensorPool(8)
	tensor := p.Get()
	require.Len(t, tensor, 8)
	for i := range tensor {
		tensor[i] = float32(i + 1)
	}
	p.Put(tensor)

	reused := p.Get()
	for _, v := range reused {
		assert.Equal(t, float32(0), v)
	}
}

func TestFloat64PoolGetPutClears(t *testing.T) {
	p := NewFloat64Pool(8)
	tensor := p.Get()
	require.Len(t, tensor, 8)
	for i := range tensor {
		tensor[i] = float64(i + 1)
	}
	p.Put(tensor)

	reused := p.Get()
	for _, v := range reused {
		assert.Equal(t, float64(0), v)
	}
}

func TestImagePoolGetReturnsRightSize(t *testing.T) {
	p := NewImagePool(16, 8)
	img := p.Get()
	bounds := img.Bounds()
	assert.Equal(t, 16, bounds.Dx())
	assert.Equal(t, 8, bounds.Dy())
	p.Put(img)
}

func TestBytePoolGetPutRoundTrip(t *testing.T) {
	p := NewBytePool(4)
	buf := p.Get()
	require.Len(t, buf, 4)
	p.Put(buf)
}
