package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"StockForecaster/internal/calculator"
	"StockForecaster/internal/metrics"
	"StockForecaster/internal/model"
)

// DefaultLookback is the number of trading days fetched per request.
const DefaultLookback = 90

// Collector orchestrates data fetching, normalization and indicator computation.
type Collector struct {
	Fetcher  Fetcher
	Lookback int

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, lookback int, logger *zap.Logger, m *metrics.Metrics) *Collector {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Fetcher: fetcher, Lookback: lookback, logger: logger, metrics: m}
}

// Collect fetches the trailing window of symbol and returns it with all indicator columns appended.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.Frame, error) {
	start := time.Now()
	raw, err := c.Fetcher.FetchDailyFrame(ctx, symbol, c.Lookback)
	c.metrics.ObserveFetch(c.Fetcher.Name(), time.Since(start))
	if err != nil {
		c.logger.Warn("fetch failed",
			zap.String("symbol", symbol),
			zap.String("provider", c.Fetcher.Name()),
			zap.Error(err))
		return nil, model.NewPipelineError(model.CodeUpstreamUnavailable,
			fmt.Sprintf("could not reach %s for %s", c.Fetcher.Name(), symbol), err)
	}
	if raw == nil {
		raw = &model.RawFrame{}
	}
	if raw.Symbol == "" {
		raw.Symbol = symbol
	}

	series, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	frame, err := calculator.Compute(series)
	if err != nil {
		return nil, model.NewPipelineError(model.CodeSchemaMismatch,
			fmt.Sprintf("could not derive indicators for %s", symbol), err)
	}

	c.logger.Debug("series collected",
		zap.String("symbol", symbol),
		zap.Int("raw_rows", raw.Len()),
		zap.Int("bars", series.Len()),
		zap.Time("last", series.LastDate()))
	return frame, nil
}
