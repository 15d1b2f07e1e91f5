package collector

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"StockForecaster/internal/model"
)

// canonical labels keyed by their letters-only lower-case spelling
var labelAliases = map[string]string{
	"open":          model.RawOpen,
	"high":          model.RawHigh,
	"low":           model.RawLow,
	"close":         model.RawClose,
	"adjclose":      model.RawAdjClose,
	"adjustedclose": model.RawAdjClose,
	"volume":        model.RawVolume,
}

// Normalize maps a raw frame onto the canonical OHLCV series.
// Column identity is fixed by position and verified by name; the adjusted close is dropped.
func Normalize(raw *model.RawFrame) (*model.Series, error) {
	symbol := ""
	if raw != nil {
		symbol = raw.Symbol
	}
	if raw.Len() == 0 {
		return nil, emptySeries(symbol)
	}

	if len(raw.Columns) != len(model.RawLayout) {
		return nil, schemaMismatch(symbol, fmt.Sprintf("expected %d columns %v, got %d %v",
			len(model.RawLayout), model.RawLayout, len(raw.Columns), raw.Columns))
	}
	for i, label := range raw.Columns {
		canon, known := canonicalLabel(label, symbol)
		if canon == "" && !known {
			continue
		}
		if !known {
			return nil, schemaMismatch(symbol, fmt.Sprintf("column %d: unrecognized label %q", i, label))
		}
		if canon != model.RawLayout[i] {
			return nil, schemaMismatch(symbol, fmt.Sprintf("column %d is %q, expected %s", i, label, model.RawLayout[i]))
		}
	}
	if len(raw.Index) != len(raw.Rows) {
		return nil, schemaMismatch(symbol, fmt.Sprintf("%d dates for %d rows", len(raw.Index), len(raw.Rows)))
	}

	bars := make([]model.OHLCV, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		if len(row) != len(model.RawLayout) {
			return nil, schemaMismatch(symbol, fmt.Sprintf("row %d has %d values", i, len(row)))
		}
		if i > 0 && !raw.Index[i].After(raw.Index[i-1]) {
			return nil, schemaMismatch(symbol, fmt.Sprintf("dates not strictly ascending at row %d (%s)",
				i, raw.Index[i].Format("2006-01-02")))
		}
		open, high, low, cls, vol := row[0], row[1], row[2], row[3], row[5]
		if !finite(open, high, low, cls, vol) {
			continue // null bar
		}
		bars = append(bars, model.OHLCV{
			Time:   raw.Index[i],
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cls,
			Volume: vol,
		})
	}
	if len(bars) == 0 {
		return nil, emptySeries(symbol)
	}
	return &model.Series{Symbol: symbol, Bars: bars}, nil
}

// canonicalLabel strips ticker fragments and punctuation from a source label.
// It returns ("", false) for a blank label and (token, false) for an unknown one.
func canonicalLabel(label, symbol string) (string, bool) {
	tokens := strings.FieldsFunc(label, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '^' || r == '=' || r == '-')
	})
	var b strings.Builder
	for _, tok := range tokens {
		if symbol != "" && strings.EqualFold(tok, symbol) {
			continue
		}
		if strings.ContainsAny(tok, "0123456789.^=") {
			continue
		}
		b.WriteString(strings.ToLower(strings.ReplaceAll(tok, "-", "")))
	}
	key := b.String()
	if key == "" {
		return "", false
	}
	canon, ok := labelAliases[key]
	if !ok {
		return key, false
	}
	return canon, true
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func emptySeries(symbol string) error {
	return model.NewPipelineError(model.CodeEmptySeries,
		fmt.Sprintf("could not fetch price data for %s", symbol), nil)
}

func schemaMismatch(symbol, detail string) error {
	return model.NewPipelineError(model.CodeSchemaMismatch,
		fmt.Sprintf("unexpected price data layout for %s: %s", symbol, detail), nil)
}
