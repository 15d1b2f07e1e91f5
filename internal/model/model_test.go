package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawFrameTail(t *testing.T) {
	f := NewRawFrame("X", 5)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f.AppendRow(day.AddDate(0, 0, i), 1, 2, 0, float64(i), 1, 10)
	}
	assert.Equal(t, RawLayout, f.Columns)

	f.Tail(10)
	assert.Equal(t, 5, f.Len())
	f.Tail(2)
	require.Equal(t, 2, f.Len())
	assert.Equal(t, 3.0, f.Rows[0][3])
	assert.Equal(t, day.AddDate(0, 0, 4), f.Index[1])

	var nilFrame *RawFrame
	assert.Equal(t, 0, nilFrame.Len())
}

func TestFrameAppend(t *testing.T) {
	s := &Series{Symbol: "X", Bars: []OHLCV{
		{Time: time.Unix(0, 0), Close: 1, Volume: 5},
		{Time: time.Unix(86400, 0), Close: 2, Volume: 6},
	}}
	f := NewFrame(s)
	assert.Equal(t, []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}, f.Names())

	require.NoError(t, f.Append("X2", []NullFloat{Missing, Some(4)}))
	assert.Error(t, f.Append("X2", []NullFloat{Missing, Missing}))
	assert.Error(t, f.Append("short", []NullFloat{Missing}))

	col, ok := f.Column("X2")
	require.True(t, ok)
	assert.False(t, col[0].Valid)
	assert.Equal(t, 4.0, col[1].Float64)

	vol, _ := f.Column(ColVolume)
	assert.Equal(t, Some(6), vol[1])
	assert.Equal(t, time.Unix(86400, 0), s.LastDate())
}

func TestPipelineError(t *testing.T) {
	cause := errors.New("dial tcp")
	err := fmt.Errorf("collect: %w", NewPipelineError(CodeUpstreamUnavailable, "could not reach yahoo", cause))

	assert.Equal(t, CodeUpstreamUnavailable, CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "collect: UpstreamUnavailable: could not reach yahoo: dial tcp", err.Error())
	assert.Equal(t, ErrorCode(""), CodeOf(cause))
}

func TestFeatureRowGet(t *testing.T) {
	r := &FeatureRow{Names: []string{"Close", "MACD"}, Values: []float64{10, -0.5}}
	v, ok := r.Get("MACD")
	assert.True(t, ok)
	assert.Equal(t, -0.5, v)
	_, ok = r.Get("RSI_14")
	assert.False(t, ok)
	assert.Len(t, FeatureSchema, 15)
}
