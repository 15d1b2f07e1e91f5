package calculator

import (
	"errors"

	"StockForecaster/internal/model"
)

// EMA computes the exponential moving average of values with smoothing 2/(span+1).
// The average is seeded with the first value; cells before the span-th observation are missing.
func EMA(values []float64, span int) ([]model.NullFloat, error) {
	in := make([]model.NullFloat, len(values))
	for i, v := range values {
		in[i] = model.Some(v)
	}
	return emaOf(in, span)
}

// emaOf averages the valid cells of in. Leading missing cells are skipped and the
// recursion starts at the first valid one.
func emaOf(in []model.NullFloat, span int) ([]model.NullFloat, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}
	out := make([]model.NullFloat, len(in))
	alpha := 2.0 / float64(span+1)

	var ema float64
	seen := 0
	for i, c := range in {
		if !c.Valid {
			continue
		}
		if seen == 0 {
			ema = c.Float64
		} else {
			ema = alpha*c.Float64 + (1-alpha)*ema
		}
		seen++
		if seen >= span {
			out[i] = model.Some(ema)
		}
	}
	return out, nil
}

// MACD returns the fast-minus-slow EMA line of closes and its signal EMA.
func MACD(closes []float64, fast, slow, signal int) (line, sig []model.NullFloat, err error) {
	if fast >= slow {
		return nil, nil, errors.New("fast period must be shorter than slow period")
	}
	fastEMA, err := EMA(closes, fast)
	if err != nil {
		return nil, nil, err
	}
	slowEMA, err := EMA(closes, slow)
	if err != nil {
		return nil, nil, err
	}

	line = make([]model.NullFloat, len(closes))
	for i := range closes {
		if fastEMA[i].Valid && slowEMA[i].Valid {
			line[i] = model.Some(fastEMA[i].Float64 - slowEMA[i].Float64)
		}
	}
	sig, err = emaOf(line, signal)
	if err != nil {
		return nil, nil, err
	}
	return line, sig, nil
}
