package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockForecaster/internal/collector"
	"StockForecaster/internal/metrics"
	"StockForecaster/internal/store"
)

// SyncResult summarises one symbol of a sync pass.
type SyncResult struct {
	Symbol string
	Bars   int
	Err    error
}

// SyncScheduler copies daily bars from an upstream fetcher into the local store on a cron schedule.
type SyncScheduler struct {
	Cron     *cron.Cron
	Fetcher  collector.Fetcher
	Store    store.Store
	Symbols  []string
	Lookback int
	Ctx      context.Context

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewSyncScheduler creates a new SyncScheduler.
func NewSyncScheduler(ctx context.Context, f collector.Fetcher, st store.Store, symbols []string, lookback int, logger *zap.Logger, m *metrics.Metrics) *SyncScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncScheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Fetcher:  f,
		Store:    st,
		Symbols:  symbols,
		Lookback: lookback,
		Ctx:      ctx,
		logger:   logger,
		metrics:  m,
	}
}

// Register schedules the sync pass.
func (s *SyncScheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register sync task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *SyncScheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running pass to finish.
func (s *SyncScheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunNow syncs every symbol once. A failing symbol does not stop the others.
func (s *SyncScheduler) RunNow() []SyncResult {
	s.logger.Info("running sync", zap.Strings("symbols", s.Symbols))
	results := make([]SyncResult, 0, len(s.Symbols))
	for _, sym := range s.Symbols {
		if err := s.Ctx.Err(); err != nil {
			results = append(results, SyncResult{Symbol: sym, Err: err})
			continue
		}
		n, err := s.syncSymbol(sym)
		results = append(results, SyncResult{Symbol: sym, Bars: n, Err: err})
	}
	return results
}

func (s *SyncScheduler) syncSymbol(symbol string) (int, error) {
	start := time.Now()
	n, err := s.fetchAndSave(symbol)
	elapsed := time.Since(start)

	if rerr := s.Store.RecordSyncRun(&store.SyncRun{
		Symbol:   symbol,
		Provider: s.Fetcher.Name(),
		Bars:     n,
		Started:  start,
		Duration: elapsed,
		Err:      err,
	}); rerr != nil {
		s.logger.Error("record sync run", zap.String("symbol", symbol), zap.Error(rerr))
	}

	if err != nil {
		s.logger.Error("sync failed", zap.String("symbol", symbol), zap.Error(err))
		return 0, err
	}
	s.metrics.AddSyncBars(n)
	s.logger.Info("sync done",
		zap.String("symbol", symbol),
		zap.Int("bars", n),
		zap.Duration("elapsed", elapsed))
	return n, nil
}

func (s *SyncScheduler) fetchAndSave(symbol string) (int, error) {
	raw, err := s.Fetcher.FetchDailyFrame(s.Ctx, symbol, s.Lookback)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}
	if raw.Len() == 0 {
		return 0, fmt.Errorf("no price data for %s", symbol)
	}
	raw.Symbol = symbol
	n, err := s.Store.SaveFrame(s.Ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}
	return n, nil
}
