package collector

import (
	"context"

	"StockForecaster/internal/model"
)

// Fetcher defines the interface for fetching raw daily bars.
// A source with no data for the symbol returns an empty frame, not an error.
type Fetcher interface {
	FetchDailyFrame(ctx context.Context, symbol string, bars int) (*model.RawFrame, error)
	Name() string
}
