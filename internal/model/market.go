package model

import "time"

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Raw column labels in the order every data source delivers them.
const (
	RawOpen     = "Open"
	RawHigh     = "High"
	RawLow      = "Low"
	RawClose    = "Close"
	RawAdjClose = "Adj Close"
	RawVolume   = "Volume"
)

// RawLayout is the fixed upstream column layout.
var RawLayout = []string{RawOpen, RawHigh, RawLow, RawClose, RawAdjClose, RawVolume}

// RawFrame is a daily bar table exactly as a data source reported it.
// Labels may embed the ticker and values may be NaN where the source had nulls.
type RawFrame struct {
	Symbol  string
	Columns []string
	Index   []time.Time
	Rows    [][]float64
}

// Len returns the number of rows.
func (f *RawFrame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// NewRawFrame builds an empty frame with the standard layout.
func NewRawFrame(symbol string, capacity int) *RawFrame {
	cols := make([]string, len(RawLayout))
	copy(cols, RawLayout)
	return &RawFrame{
		Symbol:  symbol,
		Columns: cols,
		Index:   make([]time.Time, 0, capacity),
		Rows:    make([][]float64, 0, capacity),
	}
}

// AppendRow adds one bar in raw layout order.
func (f *RawFrame) AppendRow(t time.Time, open, high, low, close, adjClose, volume float64) {
	f.Index = append(f.Index, t)
	f.Rows = append(f.Rows, []float64{open, high, low, close, adjClose, volume})
}

// Tail keeps only the last n rows.
func (f *RawFrame) Tail(n int) {
	if n <= 0 || len(f.Rows) <= n {
		return
	}
	start := len(f.Rows) - n
	f.Index = f.Index[start:]
	f.Rows = f.Rows[start:]
}

// Series is the normalized, strictly ascending bar sequence of one symbol.
type Series struct {
	Symbol string
	Bars   []OHLCV
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// LastDate returns the date of the most recent bar.
func (s *Series) LastDate() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Time
}

// Closes extracts the close prices.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the traded volumes.
func (s *Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}
