package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MorningRadar/internal/model"
)

func closes(vals ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(vals))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range vals {
		bars[i] = model.OHLCV{Time: base.AddDate(0, 0, i), Open: v, High: v * 1.01, Low: v * 0.99, Close: v}
	}
	return bars
}

func TestLastTwoCloses(t *testing.T) {
	cur, prev, err := LastTwoCloses(closes(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 3.0, cur)
	assert.Equal(t, 2.0, prev)

	cur, prev, err = LastTwoCloses(closes(7))
	require.NoError(t, err)
	assert.Equal(t, cur, prev)

	_, _, err = LastTwoCloses(nil)
	assert.Error(t, err)
}

func TestTrailingRange_Window(t *testing.T) {
	bars := closes(200, 100, 110, 120)

	high, low, err := TrailingRange(bars, 3)
	require.NoError(t, err)
	assert.InDelta(t, 121.2, high, 1e-9)
	assert.InDelta(t, 99.0, low, 1e-9)

	high, err = TrailingHigh(bars, 0)
	require.NoError(t, err)
	assert.InDelta(t, 202.0, high, 1e-9)
}

func TestTrailingRange_CloseOnlyBars(t *testing.T) {
	bars := []model.OHLCV{{Close: 5}, {Close: 9}, {Close: 7}}
	high, low, err := TrailingRange(bars, 10)
	require.NoError(t, err)
	assert.Equal(t, 9.0, high)
	assert.Equal(t, 5.0, low)
}

func TestToReading(t *testing.T) {
	r, err := ToReading("^SOX", closes(100, 120, 108), 20)
	require.NoError(t, err)
	assert.Equal(t, "^SOX", r.Symbol)
	assert.Equal(t, 108.0, r.Current)
	assert.Equal(t, 120.0, r.Previous)
	assert.InDelta(t, 121.2, r.High, 1e-9)
	assert.InDelta(t, -10.0, r.PercentChange(), 1e-9)
	assert.InDelta(t, 108/121.2*100-100, r.Drawdown(), 1e-9)

	r, err = ToReading("^TNX", closes(4.2, 4.3), 0)
	require.NoError(t, err)
	assert.Zero(t, r.High)
}
