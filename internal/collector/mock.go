package collector

import (
	"context"
	"math"
	"sync"
	"time"

	"StockForecaster/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Frame *model.RawFrame // returned as is when set
	Err   error
	End   time.Time // date of the last generated bar

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many fetches were made.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) FetchDailyFrame(_ context.Context, symbol string, bars int) (*model.RawFrame, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Frame != nil {
		return m.Frame, nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return generateMockFrame(symbol, m.Price, bars, end), nil
}

// generateMockFrame produces a gently oscillating trend ending at end, one bar per day.
func generateMockFrame(symbol string, basePrice float64, count int, end time.Time) *model.RawFrame {
	if basePrice <= 0 {
		basePrice = 100
	}
	frame := model.NewRawFrame(symbol, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.01*math.Sin(float64(i)/4))
		frame.AppendRow(
			end.AddDate(0, 0, i-count+1),
			p*0.999,
			p*1.005,
			p*0.995,
			p,
			p,
			1000000+float64(i%7)*25000,
		)
	}
	return frame
}
