package cli

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"MorningRadar/internal/board"
	"MorningRadar/internal/collector"
	"MorningRadar/internal/config"
	"MorningRadar/internal/metrics"
	"MorningRadar/internal/model"
	"MorningRadar/internal/narrative"
	"MorningRadar/internal/scoring"
)

// app is the wired pipeline shared by serve and once.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	metrics *metrics.Registry
	board   *board.Board
	cache   narrative.Cache
}

// buildApp wires collector, evaluator, narrative and board. mock swaps every
// network source for fixed sample data.
func buildApp(cfg *config.Config, log *logrus.Logger, mock bool) (*app, error) {
	eval, err := scoring.NewEvaluator(cfg.ScoringSettings())
	if err != nil {
		return nil, fmt.Errorf("build evaluator: %w", err)
	}
	for _, skipped := range eval.Skipped() {
		log.WithError(skipped).Warn("indicator rule skipped")
	}

	reg := metrics.NewRegistry()

	var col *collector.Collector
	if mock {
		col = collector.NewCollector(sampleFetcher(cfg.Indicators), cfg.Indicators, log)
	} else {
		col = collector.NewFromConfig(cfg, log)
	}
	col.Failures = reg

	var gen narrative.Generator
	var cache narrative.Cache = narrative.NewNoopCache()
	if !mock {
		gen, cache, err = narrative.NewFromConfig(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("build narrative: %w", err)
		}
	}

	b := board.New(col, eval, gen, reg, log)
	b.NarrativeTimeout = time.Duration(cfg.Narrative.TimeoutSec) * time.Second

	log.WithFields(logrus.Fields{
		"preset":     cfg.Preset,
		"indicators": len(eval.Rules()),
		"skipped":    len(eval.Skipped()),
		"narrative":  gen != nil,
	}).Info("pipeline ready")

	return &app{cfg: cfg, log: log, metrics: reg, board: b, cache: cache}, nil
}

func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		a.log.WithError(err).Warn("close narrative cache")
	}
}

// sampleFetcher returns two closes per symbol sitting just inside each rule's
// danger range, so offline runs exercise every scoring path.
func sampleFetcher(indicators []config.Indicator) *collector.MockFetcher {
	m := &collector.MockFetcher{Prices: make(map[string][]float64)}
	for _, ind := range indicators {
		if ind.Source != config.SourceQuote {
			continue
		}
		r := ind.WithDefaults()
		mid := (r.DangerLow + r.DangerHigh) / 2
		if r.Polarity == model.LowerIsWorse {
			mid = -mid
		}
		if r.Input == model.InputValue {
			m.Prices[ind.Symbol] = []float64{mid, mid}
			continue
		}
		// a move of mid percent from a base of 100
		m.Prices[ind.Symbol] = []float64{100, 100 + mid}
	}
	return m
}
