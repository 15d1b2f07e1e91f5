package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"StockForecaster/internal/model"
)

// FinanceGoFetcher implements Fetcher on top of the finance-go chart client.
type FinanceGoFetcher struct {
	now func() time.Time
}

// NewFinanceGoFetcher creates a fetcher backed by finance-go.
func NewFinanceGoFetcher() *FinanceGoFetcher {
	return &FinanceGoFetcher{now: time.Now}
}

func (f *FinanceGoFetcher) Name() string { return "financego" }

// calendarSpan returns enough calendar days to cover bars trading days plus holidays.
func calendarSpan(bars int) int {
	return bars*7/5 + 10
}

func toFloat(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

// FetchDailyFrame downloads the last bars daily bars of symbol.
func (f *FinanceGoFetcher) FetchDailyFrame(ctx context.Context, symbol string, bars int) (*model.RawFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := f.now()
	start := end.AddDate(0, 0, -calendarSpan(bars))

	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	frame := model.NewRawFrame(symbol, bars)
	for iter.Next() {
		bar := iter.Bar()
		frame.AppendRow(
			time.Unix(int64(bar.Timestamp), 0).UTC(),
			toFloat(bar.Open),
			toFloat(bar.High),
			toFloat(bar.Low),
			toFloat(bar.Close),
			toFloat(bar.AdjClose),
			float64(bar.Volume),
		)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("finance-go chart %s: %w", symbol, err)
	}
	frame.Tail(bars)
	return frame, nil
}
