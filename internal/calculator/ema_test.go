package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockForecaster/internal/model"
)

func TestEMA_SeededWithFirstValue(t *testing.T) {
	// alpha = 0.5: 1, 1.5, 2.25, 3.125
	col, err := EMA([]float64{1, 2, 3, 4}, 3)
	require.NoError(t, err)

	assert.False(t, col[0].Valid)
	assert.False(t, col[1].Valid)
	assert.InDelta(t, 2.25, col[2].Float64, 1e-12)
	assert.InDelta(t, 3.125, col[3].Float64, 1e-12)
}

func TestEMAOf_SkipsLeadingMissing(t *testing.T) {
	in := []model.NullFloat{model.Missing, model.Missing, model.Some(4), model.Some(8)}
	col, err := emaOf(in, 1)
	require.NoError(t, err)

	assert.False(t, col[1].Valid)
	assert.InDelta(t, 4.0, col[2].Float64, 1e-12)
	assert.InDelta(t, 8.0, col[3].Float64, 1e-12)
}

func TestMACD_WarmupBoundaries(t *testing.T) {
	line, sig, err := MACD(ramp(60, 50), MACDFast, MACDSlow, MACDSignalLen)
	require.NoError(t, err)

	assert.Equal(t, MACDSlow-1, firstValid(line))
	assert.Equal(t, MACDSlow-1+MACDSignalLen-1, firstValid(sig))
}

func TestMACD_UptrendSignalLags(t *testing.T) {
	line, sig, err := MACD(ramp(90, 90), MACDFast, MACDSlow, MACDSignalLen)
	require.NoError(t, err)

	for i := range line {
		if !sig[i].Valid {
			continue
		}
		assert.Greater(t, line[i].Float64, 0.0, "row %d", i)
		assert.LessOrEqual(t, sig[i].Float64, line[i].Float64+1e-9, "row %d", i)
	}
	// the gap narrows as the signal converges
	last := len(line) - 1
	first := firstValid(sig)
	assert.Less(t, line[last].Float64-sig[last].Float64, line[first].Float64-sig[first].Float64)
}

func TestMACD_InvalidPeriods(t *testing.T) {
	_, _, err := MACD(ramp(10, 1), 26, 12, 9)
	assert.Error(t, err)
}
