package model

import (
	"fmt"
	"time"
)

// NullFloat is a numeric cell that may not be computable yet.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Some returns a valid cell.
func Some(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

// Missing is the warm-up marker.
var Missing = NullFloat{}

// Base column names seeded from the series.
const (
	ColOpen   = "Open"
	ColHigh   = "High"
	ColLow    = "Low"
	ColClose  = "Close"
	ColVolume = "Volume"
)

// Frame is a series plus named columns aligned 1:1 with its bars.
type Frame struct {
	Symbol string
	Dates  []time.Time
	names  []string
	cols   map[string][]NullFloat
}

// NewFrame seeds a frame with the OHLCV columns of s.
func NewFrame(s *Series) *Frame {
	n := s.Len()
	f := &Frame{
		Symbol: s.Symbol,
		Dates:  make([]time.Time, n),
		cols:   make(map[string][]NullFloat),
	}
	open := make([]NullFloat, n)
	high := make([]NullFloat, n)
	low := make([]NullFloat, n)
	cls := make([]NullFloat, n)
	vol := make([]NullFloat, n)
	for i, b := range s.Bars {
		f.Dates[i] = b.Time
		open[i] = Some(b.Open)
		high[i] = Some(b.High)
		low[i] = Some(b.Low)
		cls[i] = Some(b.Close)
		vol[i] = Some(b.Volume)
	}
	f.put(ColOpen, open)
	f.put(ColHigh, high)
	f.put(ColLow, low)
	f.put(ColClose, cls)
	f.put(ColVolume, vol)
	return f
}

func (f *Frame) put(name string, values []NullFloat) {
	f.names = append(f.names, name)
	f.cols[name] = values
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Dates) }

// Names returns column names in insertion order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Append adds an indicator column. The column must be aligned with the frame and its name unused.
func (f *Frame) Append(name string, values []NullFloat) error {
	if len(values) != f.Len() {
		return fmt.Errorf("column %s: length %d, frame has %d rows", name, len(values), f.Len())
	}
	if _, exists := f.cols[name]; exists {
		return fmt.Errorf("column %s already exists", name)
	}
	f.put(name, values)
	return nil
}

// Column returns the named column.
func (f *Frame) Column(name string) ([]NullFloat, bool) {
	c, ok := f.cols[name]
	return c, ok
}
