package calculator

import (
	"errors"

	"StockForecaster/internal/model"
)

// RSI computes the Wilder-smoothed relative strength index of closes.
//
// Gains and losses are exponentially averaged with alpha 1/period, starting from a
// zero change on the first row. The first period rows are missing. A window with
// neither gains nor losses is neutral (50).
func RSI(closes []float64, period int) ([]model.NullFloat, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]model.NullFloat, len(closes))
	alpha := 1.0 / float64(period)

	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = alpha*gain + (1-alpha)*avgGain
		avgLoss = alpha*loss + (1-alpha)*avgLoss
		if i < period {
			continue
		}
		out[i] = model.Some(rsiValue(avgGain, avgLoss))
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0
		}
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
