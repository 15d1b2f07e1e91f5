package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"

	"StockForecaster/internal/model"
)

// Bands holds the Bollinger middle, upper and lower columns.
type Bands struct {
	Middle []model.NullFloat
	Upper  []model.NullFloat
	Lower  []model.NullFloat
}

// Bollinger computes bands around the window-row SMA of closes at k population
// standard deviations. The first window-1 cells are missing.
func Bollinger(closes []float64, window int, k float64) (*Bands, error) {
	if window <= 1 {
		return nil, errors.New("window must be greater than 1")
	}
	if k < 0 {
		return nil, errors.New("deviation multiplier must not be negative")
	}
	n := len(closes)
	b := &Bands{
		Middle: make([]model.NullFloat, n),
		Upper:  make([]model.NullFloat, n),
		Lower:  make([]model.NullFloat, n),
	}
	if n < window {
		return b, nil
	}

	upper, middle, lower := talib.BBands(closes, window, k, k, talib.SMA)
	for i := window - 1; i < n; i++ {
		b.Middle[i] = model.Some(middle[i])
		b.Upper[i] = model.Some(upper[i])
		b.Lower[i] = model.Some(lower[i])
	}
	return b, nil
}
