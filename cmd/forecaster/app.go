package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"StockForecaster/internal/collector"
	"StockForecaster/internal/config"
	"StockForecaster/internal/forecast"
	"StockForecaster/internal/inference"
	"StockForecaster/internal/logger"
	"StockForecaster/internal/metrics"
	"StockForecaster/internal/store"
)

// app holds the process-wide dependencies shared by all commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	store   *store.SQLiteStore
	adapter *inference.Adapter
}

func configPath(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

func newApp(cfgFlag string) (*app, error) {
	cfg, err := config.Load(configPath(cfgFlag))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &app{
		cfg:      cfg,
		logger:   log,
		registry: reg,
		metrics:  metrics.NewMetrics(reg),
	}, nil
}

// openStore opens the SQLite store on first use.
func (a *app) openStore() (*store.SQLiteStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, err := store.NewSQLiteStore(a.cfg.Database.SQLitePath, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store = st
	return st, nil
}

// fetcher builds the data source named by provider.
func (a *app) fetcher(provider string) (collector.Fetcher, error) {
	ds := a.cfg.DataSource
	var f collector.Fetcher
	switch provider {
	case "yahoo":
		f = collector.NewYahooFetcher(ds.Proxy, ds.Timeout)
	case "financego":
		f = collector.NewFinanceGoFetcher()
	case "sqlite":
		st, err := a.openStore()
		if err != nil {
			return nil, err
		}
		return st, nil
	case "mock":
		return &collector.MockFetcher{Price: 1000}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", provider)
	}
	if ds.RequestsPerMinute > 0 {
		f = collector.NewRateLimitedFetcher(f, ds.RequestsPerMinute)
	}
	return f, nil
}

// loadModel loads the configured model once.
func (a *app) loadModel() (*inference.Adapter, error) {
	if a.adapter != nil {
		return a.adapter, nil
	}
	mc := a.cfg.Model
	m, err := inference.Load(mc.Kind, inference.ONNXOptions{
		Path:       mc.Path,
		Library:    mc.ONNXLibrary,
		InputName:  mc.InputName,
		OutputName: mc.OutputName,
	})
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	a.adapter = inference.NewAdapter(m, a.metrics)
	a.logger.Info("model loaded", zap.String("kind", mc.Kind), zap.String("path", mc.Path))
	return a.adapter, nil
}

// service wires the forecast pipeline for the configured data source.
func (a *app) service() (*forecast.Service, error) {
	f, err := a.fetcher(a.cfg.DataSource.Provider)
	if err != nil {
		return nil, err
	}
	adapter, err := a.loadModel()
	if err != nil {
		return nil, err
	}
	a.logger.Info("data source", zap.String("provider", f.Name()))
	col := collector.NewCollector(f, a.cfg.DataSource.LookbackDays, a.logger, a.metrics)
	return forecast.NewService(col, adapter, a.cfg.DataSource.DefaultSymbol, a.logger, a.metrics), nil
}

func (a *app) close() {
	if a.adapter != nil {
		if err := a.adapter.Close(); err != nil {
			a.logger.Warn("close model", zap.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("close store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
