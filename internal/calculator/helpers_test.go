package calculator

import (
	"time"

	"StockForecaster/internal/model"
)

func seriesFromCloses(closes []float64) *model.Series {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000 + float64(i*10),
		}
	}
	return &model.Series{Symbol: "TEST", Bars: bars}
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func ramp(n int, from float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)
	}
	return out
}

func validValues(col []model.NullFloat) []float64 {
	var out []float64
	for _, c := range col {
		if c.Valid {
			out = append(out, c.Float64)
		}
	}
	return out
}

func firstValid(col []model.NullFloat) int {
	for i, c := range col {
		if c.Valid {
			return i
		}
	}
	return -1
}
