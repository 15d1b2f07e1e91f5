package store

import (
	"context"
	"time"

	"StockForecaster/internal/model"
)

// SyncRun records the outcome of one symbol synchronisation.
type SyncRun struct {
	Symbol   string
	Provider string
	Bars     int
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Store persists daily bars and serves them back as raw frames.
type Store interface {
	SaveFrame(ctx context.Context, raw *model.RawFrame) (int, error)
	FetchDailyFrame(ctx context.Context, symbol string, bars int) (*model.RawFrame, error)
	RecordSyncRun(run *SyncRun) error
	Close() error
}
