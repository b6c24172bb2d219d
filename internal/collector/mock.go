package collector

import (
	"context"
	"fmt"
	"time"

	"MorningRadar/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols listed in Fail return an error.
type MockFetcher struct {
	Prices map[string][]float64
	Fail   map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err, ok := m.Fail[symbol]; ok {
		return nil, err
	}
	closes, ok := m.Prices[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: unknown symbol %s", symbol)
	}
	if days > 0 && len(closes) > days {
		closes = closes[len(closes)-days:]
	}
	return mockBars(closes), nil
}

func mockBars(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return bars
}
