package board

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MorningRadar/internal/logging"
	"MorningRadar/internal/metrics"
	"MorningRadar/internal/model"
	"MorningRadar/internal/narrative"
	"MorningRadar/internal/scoring"
)

type fixedCollector struct{ snap model.Snapshot }

func (f fixedCollector) Collect(context.Context) model.Snapshot { return f.snap }

type stubGenerator struct {
	n     model.Narrative
	err   error
	delay time.Duration
}

func (g stubGenerator) Generate(ctx context.Context, _ narrative.Context) (model.Narrative, error) {
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return model.Narrative{}, ctx.Err()
		}
	}
	return g.n, g.err
}

func newEvaluator(t *testing.T) *scoring.Evaluator {
	t.Helper()
	e, err := scoring.NewEvaluator(scoring.Settings{Rules: []model.Rule{
		{ID: "tnx", DangerLow: 4.2, DangerHigh: 4.5},
		{ID: "oil", DangerLow: 80, DangerHigh: 85},
	}})
	require.NoError(t, err)
	return e
}

func snapshot() model.Snapshot {
	return model.Snapshot{
		Readings: map[string]model.Reading{
			"tnx": {Symbol: "^TNX", Current: 4.38, Previous: 4.30},
		},
		Failures:  map[string]string{"oil": "upstream 500"},
		Headlines: []model.Headline{{Title: "headline"}},
	}
}

func TestRefresh_PublishesReport(t *testing.T) {
	reg := metrics.NewRegistry()
	b := New(fixedCollector{snapshot()}, newEvaluator(t),
		stubGenerator{n: model.Narrative{Headline: "h", Action: "a"}}, reg, logging.Discard())

	assert.Nil(t, b.Latest())
	r := b.Refresh(context.Background())
	require.NotNil(t, r)

	assert.Same(t, r, b.Latest())
	assert.Len(t, r.ID, 26)
	assert.Equal(t, []string{"oil"}, r.Score.Missing)
	assert.Equal(t, narrative.SourceModel, r.Narrative.Source)
	assert.Equal(t, "h", r.Narrative.Narrative.Headline)
	assert.Len(t, r.Snapshot.Headlines, 1)

	assert.Equal(t, float64(r.Score.Value), testutil.ToFloat64(reg.Score))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Cycles))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Narratives.WithLabelValues("model")))
	assert.Equal(t, 0.5, testutil.ToFloat64(reg.Coverage))
}

func TestRefresh_NarrativeFallback(t *testing.T) {
	tests := []struct {
		name string
		gen  narrative.Generator
	}{
		{"disabled", nil},
		{"error", stubGenerator{err: errors.New("quota")}},
		{"slow", stubGenerator{n: model.Narrative{Headline: "late", Action: "late"}, delay: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := metrics.NewRegistry()
			b := New(fixedCollector{snapshot()}, newEvaluator(t), tt.gen, reg, logging.Discard())
			b.NarrativeTimeout = 20 * time.Millisecond

			r := b.Refresh(context.Background())
			assert.Equal(t, narrative.SourceRules, r.Narrative.Source)
			assert.Equal(t, r.Score.Level.Action, r.Narrative.Narrative.Action)
			assert.True(t, strings.Contains(r.Narrative.Narrative.Headline, r.Score.Level.Label))
			assert.Equal(t, 1.0, testutil.ToFloat64(reg.Narratives.WithLabelValues("rules")))
		})
	}
}

func TestRefresh_IDsAreOrdered(t *testing.T) {
	b := New(fixedCollector{snapshot()}, newEvaluator(t), nil, nil, logging.Discard())
	fixed := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	b.Now = func() time.Time { return fixed }

	first := b.Refresh(context.Background())
	second := b.Refresh(context.Background())
	assert.Less(t, first.ID, second.ID)
	assert.Equal(t, fixed, second.GeneratedAt)
}

func TestLatest_ConcurrentReaders(t *testing.T) {
	b := New(fixedCollector{snapshot()}, newEvaluator(t), nil, nil, logging.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			b.Refresh(context.Background())
		}()
		go func() {
			defer wg.Done()
			if r := b.Latest(); r != nil {
				_ = r.Score.Value
			}
		}()
	}
	wg.Wait()
	require.NotNil(t, b.Latest())
}
