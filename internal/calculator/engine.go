package calculator

import (
	"fmt"

	"StockForecaster/internal/model"
)

// Indicator column names.
const (
	ColRSI14      = "RSI_14"
	ColMA5        = "MA_5"
	ColMA25       = "MA_25"
	ColMA75       = "MA_75"
	ColVolumeMA5  = "Volume_MA_5"
	ColBBMiddle   = "BB_bbm"
	ColBBUpper    = "BB_bbh"
	ColBBLower    = "BB_bbl"
	ColMACD       = "MACD"
	ColMACDSignal = "MACD_signal"
)

// Indicator parameters.
const (
	RSIPeriod     = 14
	BBWindow      = 25
	BBDeviations  = 2.0
	MACDFast      = 12
	MACDSlow      = 26
	MACDSignalLen = 9
)

// LongestLookback is the number of bars needed before every indicator is defined.
const LongestLookback = 75

// Compute builds a frame from s and appends every indicator column, in place and aligned by date.
func Compute(s *model.Series) (*model.Frame, error) {
	f := model.NewFrame(s)
	closes := s.Closes()
	volumes := s.Volumes()

	rsi, err := RSI(closes, RSIPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	if err := f.Append(ColRSI14, rsi); err != nil {
		return nil, err
	}

	for _, ma := range []struct {
		name   string
		values []float64
		window int
	}{
		{ColMA5, closes, 5},
		{ColMA25, closes, 25},
		{ColMA75, closes, LongestLookback},
		{ColVolumeMA5, volumes, 5},
	} {
		col, err := SMA(ma.values, ma.window)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ma.name, err)
		}
		if err := f.Append(ma.name, col); err != nil {
			return nil, err
		}
	}

	bands, err := Bollinger(closes, BBWindow, BBDeviations)
	if err != nil {
		return nil, fmt.Errorf("bollinger: %w", err)
	}
	if err := f.Append(ColBBMiddle, bands.Middle); err != nil {
		return nil, err
	}
	if err := f.Append(ColBBUpper, bands.Upper); err != nil {
		return nil, err
	}
	if err := f.Append(ColBBLower, bands.Lower); err != nil {
		return nil, err
	}

	line, sig, err := MACD(closes, MACDFast, MACDSlow, MACDSignalLen)
	if err != nil {
		return nil, fmt.Errorf("macd: %w", err)
	}
	if err := f.Append(ColMACD, line); err != nil {
		return nil, err
	}
	if err := f.Append(ColMACDSignal, sig); err != nil {
		return nil, err
	}
	return f, nil
}
