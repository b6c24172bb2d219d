package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"MorningRadar/internal/model"
)

// YahooFetcher implements QuoteFetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL string, client *http.Client) *YahooFetcher {
	return &YahooFetcher{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

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
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

// rangeFor picks the smallest chart range holding the requested trading days.
func rangeFor(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 22:
		return "1mo"
	case days <= 66:
		return "3mo"
	case days <= 130:
		return "6mo"
	case days <= 252:
		return "1y"
	default:
		return "2y"
	}
}

// FetchBars returns up to days daily bars in chronological order.
func (f *YahooFetcher) FetchBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(symbol), rangeFor(days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == 0 {
			continue // null bars (holidays, the still-open session)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: only null bars for %s", symbol)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if days > 0 && len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
