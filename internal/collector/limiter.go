package collector

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"StockForecaster/internal/model"
)

// RateLimitedFetcher throttles calls to an upstream Fetcher.
type RateLimitedFetcher struct {
	next    Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher wraps next with a token bucket of requestsPerMinute.
// The burst is a tenth of the per-minute budget, at least one request.
func NewRateLimitedFetcher(next Fetcher, requestsPerMinute int) *RateLimitedFetcher {
	rps := float64(requestsPerMinute) / 60.0
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedFetcher{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (l *RateLimitedFetcher) Name() string { return l.next.Name() }

// FetchDailyFrame waits for a token, then delegates.
func (l *RateLimitedFetcher) FetchDailyFrame(ctx context.Context, symbol string, bars int) (*model.RawFrame, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter %s: %w", l.next.Name(), err)
	}
	return l.next.FetchDailyFrame(ctx, symbol, bars)
}
