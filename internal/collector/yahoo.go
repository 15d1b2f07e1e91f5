package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"

	"StockForecaster/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	client    *resty.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(yahooBaseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooFetcher{
		client: client,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"N225":   "^N225",
		},
	}
}

// WithBaseURL points the fetcher at another chart endpoint.
func (f *YahooFetcher) WithBaseURL(baseURL string) *YahooFetcher {
	f.client.SetBaseURL(baseURL)
	return f
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// at returns the i-th value or NaN for a null or short column.
func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return math.NaN()
	}
	return *values[i]
}

// chartRange picks the smallest Yahoo range covering the requested number of trading days.
func chartRange(bars int) string {
	switch {
	case bars <= 20:
		return "1mo"
	case bars <= 60:
		return "3mo"
	case bars <= 120:
		return "6mo"
	case bars <= 250:
		return "1y"
	case bars <= 500:
		return "2y"
	default:
		return "5y"
	}
}

// FetchDailyFrame downloads the last bars daily bars of symbol.
func (f *YahooFetcher) FetchDailyFrame(ctx context.Context, symbol string, bars int) (*model.RawFrame, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("symbol", f.yahooSymbol(symbol)).
		SetQueryParams(map[string]string{
			"interval":             "1d",
			"range":                chartRange(bars),
			"includeAdjustedClose": "true",
		}).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode(), resp.String())
		}
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return model.NewRawFrame(symbol, 0), nil
		}
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	frame := model.NewRawFrame(symbol, bars)
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return frame, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	order := make([]int, len(result.Timestamp))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return result.Timestamp[order[a]] < result.Timestamp[order[b]] })

	for _, i := range order {
		frame.AppendRow(
			time.Unix(result.Timestamp[i], 0).UTC(),
			at(quote.Open, i),
			at(quote.High, i),
			at(quote.Low, i),
			at(quote.Close, i),
			at(adj, i),
			at(quote.Volume, i),
		)
	}
	frame.Tail(bars)
	return frame, nil
}
