package calculator

import (
	"errors"
	"math"

	"MorningRadar/internal/model"
)

// TrailingRange scans the most recent n bars and returns the high and low.
// n <= 0 scans every bar.
func TrailingRange(bars []model.OHLCV, n int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	start := 0
	if n > 0 && len(bars) > n {
		start = len(bars) - n
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(bars); i++ {
		// some feeds leave High/Low empty and only fill Close
		h, l := bars[i].High, bars[i].Low
		if h == 0 {
			h = bars[i].Close
		}
		if l == 0 {
			l = bars[i].Close
		}
		if h > high {
			high = h
		}
		if l < low {
			low = l
		}
	}
	return high, low, nil
}

// TrailingHigh returns the highest high of the most recent n bars.
func TrailingHigh(bars []model.OHLCV, n int) (float64, error) {
	high, _, err := TrailingRange(bars, n)
	return high, err
}
