package collector

import (
	"context"

	"MorningRadar/internal/model"
)

// QuoteFetcher defines the interface for fetching daily quote bars.
type QuoteFetcher interface {
	FetchBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	Name() string
}

// WeatherSource returns the current local weather.
type WeatherSource interface {
	FetchWeather(ctx context.Context) (*model.Weather, error)
}

// FlowSource returns today's investor net buying.
type FlowSource interface {
	FetchFlow(ctx context.Context) (*model.InvestorFlow, error)
}

// NewsSource returns the latest headlines.
type NewsSource interface {
	FetchHeadlines(ctx context.Context) ([]model.Headline, error)
}

// FailureCounter receives one call per failed fetch.
type FailureCounter interface {
	FetchFailed(source string)
}
