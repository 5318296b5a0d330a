package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMath(t *testing.T) {
	for p := -10; p <= 10; p++ {
		assert.InDelta(t, math.Pow(1.3, float64(p)), POW(1.3, p), 1e-12)
	}
	assert.Equal(t, []float64{1, 1.5, 2}, Linspace(1, 0.5, 3))
	assert.False(t, IsNan([]float64{1, 2}))
	assert.True(t, IsNan([][]float64{{1}, {math.NaN()}}))
	assert.True(t, IsNan(complex(0, math.NaN())))
	assert.Panics(t, func() { IsNanPanic(math.NaN()) })
}
