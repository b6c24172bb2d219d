package board

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"MorningRadar/internal/metrics"
	"MorningRadar/internal/model"
	"MorningRadar/internal/narrative"
	"MorningRadar/internal/scoring"
)

// Report is the immutable result of one refresh cycle. Presenters only read it.
type Report struct {
	ID          string               `json:"id"`
	Score       model.CompositeScore `json:"score"`
	Snapshot    model.Snapshot       `json:"snapshot"`
	Narrative   narrative.Result     `json:"narrative"`
	GeneratedAt time.Time            `json:"generated_at"`
	Duration    time.Duration        `json:"duration_ns"`
}

// Collector gathers one snapshot of every configured source.
type Collector interface {
	Collect(ctx context.Context) model.Snapshot
}

// Board runs refresh cycles and keeps the latest report.
type Board struct {
	collector Collector
	evaluator *scoring.Evaluator
	generator narrative.Generator // nil: band text only
	metrics   *metrics.Registry   // optional
	log       *logrus.Entry

	// NarrativeTimeout bounds the generator call; the score never waits longer.
	NarrativeTimeout time.Duration
	Now              func() time.Time

	cycle  sync.Mutex // one refresh at a time
	mu     sync.RWMutex
	latest *Report
}

// New creates a Board. gen and reg may be nil.
func New(c Collector, e *scoring.Evaluator, gen narrative.Generator, reg *metrics.Registry, log *logrus.Logger) *Board {
	return &Board{
		collector:        c,
		evaluator:        e,
		generator:        gen,
		metrics:          reg,
		log:              log.WithField("component", "board"),
		NarrativeTimeout: 20 * time.Second,
		Now:              time.Now,
	}
}

// Refresh runs collect, evaluate and narrate, then publishes the new report.
func (b *Board) Refresh(ctx context.Context) *Report {
	b.cycle.Lock()
	defer b.cycle.Unlock()

	start := b.Now()
	snap := b.collector.Collect(ctx)
	score := b.evaluator.Evaluate(snap.Readings)

	nctx, cancel := context.WithTimeout(ctx, b.NarrativeTimeout)
	res := narrative.Resolve(nctx, b.generator, narrative.Context{
		Score:     score,
		Weather:   snap.Weather,
		Flow:      snap.Flow,
		Headlines: snap.Headlines,
	})
	cancel()
	if res.Err != nil {
		b.log.WithError(res.Err).Warn("narrative unavailable, using band text")
	}

	end := b.Now()
	report := &Report{
		ID:          newID(end),
		Score:       score,
		Snapshot:    snap,
		Narrative:   res,
		GeneratedAt: end,
		Duration:    end.Sub(start),
	}

	if b.metrics != nil {
		b.metrics.ObserveScore(score)
		b.metrics.NarrativeProduced(string(res.Source))
		b.metrics.CycleDuration.Observe(report.Duration.Seconds())
		b.metrics.Cycles.Inc()
	}

	fields := logrus.Fields{
		"id":        report.ID,
		"score":     score.Value,
		"raw":       score.Raw,
		"band":      score.Level.Label,
		"escalated": score.Escalated,
		"narrative": res.Source,
	}
	if len(score.Missing) > 0 {
		fields["missing"] = score.Missing
		b.log.WithFields(fields).Warn("refresh finished with missing indicators")
	} else {
		b.log.WithFields(fields).Info("refresh finished")
	}

	b.mu.Lock()
	b.latest = report
	b.mu.Unlock()
	return report
}

// Latest returns the most recent report, or nil before the first refresh.
func (b *Board) Latest() *Report {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest
}

// Evaluator exposes the scoring configuration, for presenters listing rules.
func (b *Board) Evaluator() *scoring.Evaluator { return b.evaluator }
