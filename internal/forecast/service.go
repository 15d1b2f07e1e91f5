package forecast

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"StockForecaster/internal/collector"
	"StockForecaster/internal/features"
	"StockForecaster/internal/inference"
	"StockForecaster/internal/metrics"
	"StockForecaster/internal/model"
)

// DefaultSymbol is used when a request names no symbol.
const DefaultSymbol = "9104.T"

var symbolPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.=^-]{0,19}$`)

// Service runs the forecast pipeline and is the error boundary for it.
type Service struct {
	collector     *collector.Collector
	adapter       *inference.Adapter
	defaultSymbol string
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

// NewService creates a Service.
func NewService(c *collector.Collector, a *inference.Adapter, defaultSymbol string, logger *zap.Logger, m *metrics.Metrics) *Service {
	if defaultSymbol == "" {
		defaultSymbol = DefaultSymbol
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		collector:     c,
		adapter:       a,
		defaultSymbol: defaultSymbol,
		logger:        logger,
		metrics:       m,
	}
}

// DefaultSymbol returns the symbol used for blank requests.
func (s *Service) DefaultSymbol() string { return s.defaultSymbol }

// ModelKind reports the loaded model implementation.
func (s *Service) ModelKind() string { return s.adapter.Kind() }

// NormalizeSymbol trims and upper-cases raw, substituting def when blank.
func NormalizeSymbol(raw, def string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if sym == "" {
		sym = def
	}
	if !symbolPattern.MatchString(sym) {
		return "", model.NewPipelineError(model.CodeInvalidSymbol,
			fmt.Sprintf("invalid symbol %q", raw), nil)
	}
	return sym, nil
}

// Forecast runs the full pipeline for symbol.
func (s *Service) Forecast(ctx context.Context, symbol string) (*model.Forecast, error) {
	start := time.Now()
	fc, err := s.forecast(ctx, symbol)
	s.metrics.ObservePipeline(time.Since(start))
	s.record(symbol, err)
	if err != nil {
		return nil, err
	}
	s.logger.Info("forecast",
		zap.String("symbol", fc.Symbol),
		zap.Time("as_of", fc.AsOf),
		zap.Float64("prediction", fc.Prediction),
		zap.Duration("elapsed", time.Since(start)))
	return fc, nil
}

func (s *Service) forecast(ctx context.Context, symbol string) (*model.Forecast, error) {
	row, err := s.features(ctx, symbol)
	if err != nil {
		return nil, err
	}
	y, err := s.adapter.Predict(row)
	if err != nil {
		return nil, err
	}
	return &model.Forecast{
		Symbol:     row.Symbol,
		AsOf:       row.Date,
		Prediction: y,
		Features:   row,
	}, nil
}

// Features runs the pipeline up to the assembled feature row, without inference.
func (s *Service) Features(ctx context.Context, symbol string) (*model.FeatureRow, error) {
	row, err := s.features(ctx, symbol)
	if err != nil {
		s.record(symbol, err)
		return nil, err
	}
	return row, nil
}

func (s *Service) features(ctx context.Context, symbol string) (row *model.FeatureRow, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = model.NewPipelineError(model.CodeInternal,
				"internal error while deriving features", fmt.Errorf("panic: %v", r))
		}
	}()

	sym, err := NormalizeSymbol(symbol, s.defaultSymbol)
	if err != nil {
		return nil, err
	}
	frame, err := s.collector.Collect(ctx, sym)
	if err != nil {
		return nil, err
	}
	return features.Assemble(frame)
}

func (s *Service) record(symbol string, err error) {
	if err == nil {
		s.metrics.CountPrediction("ok")
		return
	}
	code, msg := Describe(err)
	s.metrics.CountPrediction(string(code))
	s.logger.Warn("forecast failed",
		zap.String("symbol", symbol),
		zap.String("code", string(code)),
		zap.String("message", msg),
		zap.Error(err))
}

// Describe reduces err to the code and user-facing message reported to clients.
func Describe(err error) (model.ErrorCode, string) {
	var pe *model.PipelineError
	if errors.As(err, &pe) {
		return pe.Code, pe.Message
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return model.CodeUpstreamUnavailable, "request cancelled before price data arrived"
	}
	return model.CodeInternal, "internal error"
}
