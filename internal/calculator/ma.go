package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"

	"StockForecaster/internal/model"
)

// SMA computes the trailing simple moving average of values over window rows.
// The first window-1 cells are missing.
func SMA(values []float64, window int) ([]model.NullFloat, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]model.NullFloat, len(values))
	if len(values) < window {
		return out, nil
	}
	ma := talib.Sma(values, window)
	for i := window - 1; i < len(values); i++ {
		out[i] = model.Some(ma[i])
	}
	return out, nil
}
