package collector

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{
  "timestamp":[1735862400,1735689600,1735776000],
  "indicators":{
    "quote":[{"open":[3,1,2],"high":[3.5,1.5,2.5],"low":[2.5,0.5,1.5],"close":[3.2,1.2,null],"volume":[300,100,200]}],
    "adjclose":[{"adjclose":[3.1,1.1,2.1]}]
  }}],"error":null}}`

func TestYahooFetcher(t *testing.T) {
	var gotPath, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", time.Second).WithBaseURL(srv.URL)
	frame, err := f.FetchDailyFrame(context.Background(), "9104.T", 90)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/9104.T", gotPath)
	assert.Equal(t, "6mo", gotRange)
	require.Equal(t, 3, frame.Len())
	assert.True(t, frame.Index[0].Before(frame.Index[1]))
	assert.Equal(t, []float64{1, 1.5, 0.5, 1.2, 1.1, 100}, frame.Rows[0])
	assert.True(t, math.IsNaN(frame.Rows[1][3]))

	series, err := Normalize(frame)
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())
}

func TestYahooFetcherTail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	frame, err := NewYahooFetcher("", time.Second).WithBaseURL(srv.URL).
		FetchDailyFrame(context.Background(), "9104.T", 2)
	require.NoError(t, err)
	require.Equal(t, 2, frame.Len())
	assert.Equal(t, 3.2, frame.Rows[1][3])
}

func TestYahooFetcherNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	frame, err := NewYahooFetcher("", time.Second).WithBaseURL(srv.URL).
		FetchDailyFrame(context.Background(), "NOPE", 90)
	require.NoError(t, err)
	assert.Equal(t, 0, frame.Len())
}

func TestYahooFetcherServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewYahooFetcher("", time.Second).WithBaseURL(srv.URL).
		FetchDailyFrame(context.Background(), "9104.T", 90)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestYahooSymbolMap(t *testing.T) {
	f := NewYahooFetcher("", 0)
	assert.Equal(t, "^GSPC", f.yahooSymbol("SPX500"))
	assert.Equal(t, "7203.T", f.yahooSymbol("7203.T"))
}

func TestChartRange(t *testing.T) {
	assert.Equal(t, "1mo", chartRange(5))
	assert.Equal(t, "3mo", chartRange(60))
	assert.Equal(t, "6mo", chartRange(90))
	assert.Equal(t, "1y", chartRange(200))
	assert.Equal(t, "5y", chartRange(1000))
}
