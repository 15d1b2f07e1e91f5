package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockForecaster/internal/calculator"
	"StockForecaster/internal/model"
)

var start = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func rampFrame(t *testing.T, n int, from float64) *model.Frame {
	t.Helper()
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := from + float64(i)
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 5000 + float64(i%3)*100,
		}
	}
	f, err := calculator.Compute(&model.Series{Symbol: "9104.T", Bars: bars})
	require.NoError(t, err)
	return f
}

func TestAssembleLastRow(t *testing.T) {
	f := rampFrame(t, 90, 90)

	row, err := Assemble(f)
	require.NoError(t, err)
	assert.Equal(t, "9104.T", row.Symbol)
	assert.Equal(t, start.AddDate(0, 0, 89), row.Date)
	assert.Equal(t, model.FeatureSchema, row.Names)
	require.Len(t, row.Values, 15)

	c, _ := row.Get("Close")
	assert.Equal(t, 179.0, c)
	o, _ := row.Get("Open")
	assert.Equal(t, 178.5, o)
	ma75, _ := row.Get("MA_75")
	assert.InDelta(t, 142.0, ma75, 1e-9)
	macd, _ := row.Get("MACD")
	assert.Greater(t, macd, 0.0)
	bbh, _ := row.Get("BB_bbh")
	bbm, _ := row.Get("BB_bbm")
	bbl, _ := row.Get("BB_bbl")
	assert.Greater(t, bbh, bbm)
	assert.Greater(t, bbm, bbl)
}

func TestCompleteRows(t *testing.T) {
	f := rampFrame(t, 90, 90)

	rows, err := CompleteRows(f)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, calculator.LongestLookback-1, rows[0])
	assert.Equal(t, 89, rows[len(rows)-1])
	assert.Len(t, rows, 90-calculator.LongestLookback+1)
}

func TestAssembleInsufficientHistory(t *testing.T) {
	f := rampFrame(t, 74, 90)

	row, err := Assemble(f)
	require.Error(t, err)
	assert.Nil(t, row)
	assert.Equal(t, model.CodeInsufficientHistory, model.CodeOf(err))
	assert.Contains(t, err.Error(), "widen the lookback window")
	assert.Contains(t, err.Error(), "74 bars")
}

func TestAssembleMinimalHistory(t *testing.T) {
	row, err := Assemble(rampFrame(t, 75, 90))
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 74), row.Date)
}

func TestAssembleIdempotent(t *testing.T) {
	a, err := Assemble(rampFrame(t, 100, 50))
	require.NoError(t, err)
	b, err := Assemble(rampFrame(t, 100, 50))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAssembleSkipsTrailingGap(t *testing.T) {
	f := rampFrame(t, 90, 90)
	rsi, _ := f.Column(calculator.ColRSI14)
	rsi[89] = model.Missing

	row, err := Assemble(f)
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 88), row.Date)
}

func TestAssembleMissingColumn(t *testing.T) {
	bars := []model.OHLCV{{Time: start, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}}
	f := model.NewFrame(&model.Series{Symbol: "X", Bars: bars})

	_, err := Assemble(f)
	require.Error(t, err)
	assert.Equal(t, model.CodeSchemaMismatch, model.CodeOf(err))
	assert.Contains(t, err.Error(), "RSI_14")
}
