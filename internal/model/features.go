package model

import "time"

// FeatureSchema is the ordered column list the regression model was trained on.
var FeatureSchema = []string{
	"Close", "High", "Low", "Open", "Volume",
	"RSI_14", "MA_5", "MA_25", "MA_75",
	"Volume_MA_5", "BB_bbm", "BB_bbh", "BB_bbl",
	"MACD", "MACD_signal",
}

// FeatureRow is the model input for one date.
type FeatureRow struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

// Get returns the value of the named feature.
func (r *FeatureRow) Get(name string) (float64, bool) {
	for i, n := range r.Names {
		if n == name {
			return r.Values[i], true
		}
	}
	return 0, false
}

// Forecast is the outcome of one successful pipeline run.
type Forecast struct {
	Symbol     string      `json:"symbol"`
	AsOf       time.Time   `json:"as_of"`
	Prediction float64     `json:"prediction"`
	Features   *FeatureRow `json:"features,omitempty"`
}
