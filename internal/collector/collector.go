package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"MorningRadar/internal/calculator"
	"MorningRadar/internal/config"
	"MorningRadar/internal/model"
)

// minBars is the smallest history fetched per quote: today plus the prior close.
const minBars = 2

// Collector fans out one cycle of fetches and assembles a Snapshot.
// A failed source is logged and left out; it never fails the cycle.
type Collector struct {
	Quotes  QuoteFetcher
	Weather WeatherSource // optional
	Flow    FlowSource    // optional
	News    NewsSource    // optional

	Indicators  []config.Indicator
	Timeout     time.Duration
	Concurrency int
	Guard       *Guard
	Failures    FailureCounter // optional
	Log         *logrus.Entry
	Now         func() time.Time
}

// NewCollector creates a Collector for the configured indicators.
func NewCollector(quotes QuoteFetcher, indicators []config.Indicator, log *logrus.Logger) *Collector {
	return &Collector{
		Quotes:      quotes,
		Indicators:  indicators,
		Timeout:     10 * time.Second,
		Concurrency: 4,
		Guard:       NewGuard(0, 1),
		Log:         log.WithField("component", "collector"),
		Now:         time.Now,
	}
}

// NewFromConfig wires the production sources described by cfg.
func NewFromConfig(cfg *config.Config, log *logrus.Logger) *Collector {
	timeout := time.Duration(cfg.Fetch.TimeoutSec) * time.Second
	client := NewHTTPClient(cfg.Proxy, timeout)

	c := NewCollector(NewYahooFetcher(cfg.Sources.QuoteBaseURL, client), cfg.Indicators, log)
	c.Timeout = timeout
	c.Concurrency = cfg.Fetch.Concurrency
	c.Guard = NewGuard(cfg.Fetch.RatePerSec, cfg.Fetch.Burst)

	if !cfg.Sources.Weather.Disabled {
		w := cfg.Sources.Weather
		c.Weather = NewWeatherClient(w.BaseURL, w.Latitude, w.Longitude, client)
	}
	f := cfg.Sources.Flow
	c.Flow = &FlowScraper{
		URL:                 f.URL,
		Market:              f.Market,
		ForeignSelector:     f.ForeignSelector,
		InstitutionSelector: f.InstitutionSelector,
		IndividualSelector:  f.IndividualSelector,
		Client:              client,
	}
	n := cfg.Sources.News
	c.News = &NewsScraper{URL: n.URL, Selector: n.Selector, Limit: n.Limit, Client: client}
	return c
}

// Collect fetches every configured source concurrently.
func (c *Collector) Collect(ctx context.Context) model.Snapshot {
	snap := model.Snapshot{
		Readings:  make(map[string]model.Reading),
		Failures:  make(map[string]string),
		FetchedAt: c.now(),
	}
	var mu sync.Mutex
	fail := func(key, source string, err error) {
		c.Log.WithError(err).WithField("source", key).Warn("fetch failed, excluding from this cycle")
		if c.Failures != nil {
			c.Failures.FetchFailed(source)
		}
		mu.Lock()
		snap.Failures[key] = err.Error()
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Concurrency, 1))

	needFlow := false
	for _, ind := range c.Indicators {
		if ind.Source == config.SourceFlow {
			needFlow = true
			continue
		}
		ind := ind
		g.Go(func() error {
			r, err := c.fetchQuote(gctx, ind)
			if err != nil {
				fail(ind.ID, c.Quotes.Name(), err)
				return nil
			}
			mu.Lock()
			snap.Readings[ind.ID] = r
			mu.Unlock()
			return nil
		})
	}

	if c.Flow != nil {
		g.Go(func() error {
			v, err := c.guarded(gctx, "flow", func(ctx context.Context) (any, error) { return c.Flow.FetchFlow(ctx) })
			if err != nil {
				fail("flow", "flow", err)
				return nil
			}
			mu.Lock()
			snap.Flow = v.(*model.InvestorFlow)
			mu.Unlock()
			return nil
		})
	}
	if c.Weather != nil {
		g.Go(func() error {
			v, err := c.guarded(gctx, "weather", func(ctx context.Context) (any, error) { return c.Weather.FetchWeather(ctx) })
			if err != nil {
				fail("weather", "weather", err)
				return nil
			}
			mu.Lock()
			snap.Weather = v.(*model.Weather)
			mu.Unlock()
			return nil
		})
	}
	if c.News != nil {
		g.Go(func() error {
			v, err := c.guarded(gctx, "news", func(ctx context.Context) (any, error) { return c.News.FetchHeadlines(ctx) })
			if err != nil {
				fail("news", "news", err)
				return nil
			}
			mu.Lock()
			snap.Headlines = v.([]model.Headline)
			mu.Unlock()
			return nil
		})
	}

	// workers never return errors; Wait only joins them
	_ = g.Wait()

	if snap.Flow != nil {
		for _, ind := range c.Indicators {
			if ind.Source != config.SourceFlow {
				continue
			}
			v := flowField(snap.Flow, ind.Field)
			// one figure per day: previous equals current
			snap.Readings[ind.ID] = model.Reading{Symbol: ind.Field, Current: v, Previous: v, FetchedAt: snap.FetchedAt}
		}
	} else if needFlow {
		for _, ind := range c.Indicators {
			if ind.Source == config.SourceFlow {
				if _, ok := snap.Failures[ind.ID]; !ok {
					snap.Failures[ind.ID] = "investor flow unavailable"
				}
			}
		}
	}

	c.Log.WithFields(logrus.Fields{
		"readings": len(snap.Readings),
		"failures": len(snap.Failures),
	}).Debug("collect finished")
	return snap
}

func (c *Collector) fetchQuote(ctx context.Context, ind config.Indicator) (model.Reading, error) {
	days := max(ind.Lookback, minBars)
	v, err := c.guarded(ctx, c.Quotes.Name(), func(ctx context.Context) (any, error) {
		return c.Quotes.FetchBars(ctx, ind.Symbol, days)
	})
	if err != nil {
		return model.Reading{}, fmt.Errorf("fetch %s: %w", ind.Symbol, err)
	}
	r, err := calculator.ToReading(ind.Symbol, v.([]model.OHLCV), ind.Lookback)
	if err != nil {
		return model.Reading{}, fmt.Errorf("reading %s: %w", ind.Symbol, err)
	}
	r.FetchedAt = c.now()
	return r, nil
}

// guarded applies the per-request timeout, rate limit and breaker.
func (c *Collector) guarded(ctx context.Context, source string, fn func(ctx context.Context) (any, error)) (any, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	return c.Guard.Do(ctx, source, fn)
}

func (c *Collector) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func flowField(f *model.InvestorFlow, field string) float64 {
	switch field {
	case "institution":
		return f.Institution
	case "individual":
		return f.Individual
	default:
		return f.Foreign
	}
}
