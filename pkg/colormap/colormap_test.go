package colormap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGreyToRGBAEndpoints(t *testing.T) {
	assert.Equal(t, LUT[0], GreyToRGBA(0))
	assert.Equal(t, LUT[len(LUT)-1], GreyToRGBA(1))
	assert.Equal(t, LUT[len(LUT)-1], GreyToRGBA(5))
}

func TestGreyToRGBAClampsNegative(t *testing.T) {
	assert.Equal(t, LUT[0], GreyToRGBA(-1))
}

func TestGreyToRGBAInterpolatesBetweenStops(t *testing.T) {
	c := GreyToRGBA(0.05)
	assert.NotEqual(t, LUT[0], c)
	assert.NotEqual(t, LUT[1], c)
}
