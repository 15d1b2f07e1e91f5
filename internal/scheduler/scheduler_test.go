package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockForecaster/internal/collector"
	"StockForecaster/internal/metrics"
	"StockForecaster/internal/model"
	"StockForecaster/internal/store"
)

// failingFetcher fails for one symbol and delegates the rest.
type failingFetcher struct {
	*collector.MockFetcher
	bad string
}

func (f *failingFetcher) FetchDailyFrame(ctx context.Context, symbol string, bars int) (*model.RawFrame, error) {
	if symbol == f.bad {
		return nil, errors.New("upstream 503")
	}
	return f.MockFetcher.FetchDailyFrame(ctx, symbol, bars)
}

func openStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "sync.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRunNowContinuesAfterFailure(t *testing.T) {
	st := openStore(t)
	met := metrics.NewMetrics(prometheus.NewRegistry())
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	f := &failingFetcher{MockFetcher: &collector.MockFetcher{End: end}, bad: "BAD"}

	s := NewSyncScheduler(context.Background(), f, st, []string{"BAD", "9104.T", "7203.T"}, 30, nil, met)
	results := s.RunNow()

	require.Len(t, results, 3)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 30, results[1].Bars)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 60.0, testutil.ToFloat64(met.SyncBarsTotal))

	got, err := st.FetchDailyFrame(context.Background(), "7203.T", 100)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Len())
	assert.Equal(t, end, got.Index[29])

	_, ok, err := st.LastSync(context.Background(), "BAD")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = st.LastSync(context.Background(), "9104.T")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunNowEmptyUpstream(t *testing.T) {
	st := openStore(t)
	f := &collector.MockFetcher{Frame: &model.RawFrame{}}

	results := NewSyncScheduler(context.Background(), f, st, []string{"NONE"}, 30, nil, nil).RunNow()
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestRunNowCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &collector.MockFetcher{}

	results := NewSyncScheduler(ctx, f, openStore(t), []string{"A", "B"}, 30, nil, nil).RunNow()
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[1].Err, context.Canceled)
	assert.Equal(t, 0, f.Calls())
}

func TestRegister(t *testing.T) {
	s := NewSyncScheduler(context.Background(), &collector.MockFetcher{}, openStore(t), nil, 30, nil, nil)
	require.NoError(t, s.Register("0 30 18 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("every day"))

	s.Start()
	s.Stop()
}
