package model

import (
	"math"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Reading is one snapshot of one tracked quantity, built fresh every cycle.
type Reading struct {
	Symbol    string    `json:"symbol"`
	Current   float64   `json:"current"`
	Previous  float64   `json:"previous"`
	High      float64   `json:"high,omitempty"` // trailing N-period high, 0 when unknown
	FetchedAt time.Time `json:"fetched_at"`
}

// PercentChange returns the single-period change in percent, 0 when Previous is 0.
func (r Reading) PercentChange() float64 {
	if r.Previous == 0 {
		return 0
	}
	return (r.Current - r.Previous) / r.Previous * 100
}

// Drawdown returns the retracement from the trailing high in percent (<= 0 below the high).
// Returns 0 when the high is unknown.
func (r Reading) Drawdown() float64 {
	if r.High == 0 {
		return 0
	}
	return (r.Current - r.High) / r.High * 100
}

// Valid reports whether the reading carries usable numbers.
func (r Reading) Valid() bool {
	for _, v := range []float64{r.Current, r.Previous, r.High} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
