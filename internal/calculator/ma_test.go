package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA_WarmupAndValues(t *testing.T) {
	col, err := SMA([]float64{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)
	require.Len(t, col, 6)

	assert.False(t, col[0].Valid)
	assert.False(t, col[1].Valid)
	assert.InDelta(t, 2.0, col[2].Float64, 1e-12)
	assert.InDelta(t, 3.0, col[3].Float64, 1e-12)
	assert.InDelta(t, 5.0, col[5].Float64, 1e-12)
}

func TestSMA_ShorterThanWindow(t *testing.T) {
	col, err := SMA([]float64{1, 2, 3}, 5)
	require.NoError(t, err)
	assert.Len(t, col, 3)
	assert.Equal(t, -1, firstValid(col))
}

func TestSMA_InvalidWindow(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}
