package calculator

import (
	"errors"

	"MorningRadar/internal/model"
)

// LastTwoCloses returns the latest and the prior close. With a single bar
// both values are that bar's close.
func LastTwoCloses(bars []model.OHLCV) (current, previous float64, err error) {
	switch len(bars) {
	case 0:
		return 0, 0, errors.New("no bars provided")
	case 1:
		return bars[0].Close, bars[0].Close, nil
	}
	return bars[len(bars)-1].Close, bars[len(bars)-2].Close, nil
}

// ToReading condenses a bar series into a Reading. lookback > 0 also
// fills the trailing high over that many bars.
func ToReading(symbol string, bars []model.OHLCV, lookback int) (model.Reading, error) {
	cur, prev, err := LastTwoCloses(bars)
	if err != nil {
		return model.Reading{}, err
	}
	r := model.Reading{Symbol: symbol, Current: cur, Previous: prev}
	if lookback > 0 {
		if h, err := TrailingHigh(bars, lookback); err == nil {
			r.High = h
		}
	}
	return r, nil
}
