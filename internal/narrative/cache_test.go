package narrative

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MorningRadar/internal/logging"
	"MorningRadar/internal/model"
)

type countingGenerator struct {
	calls int
	reply model.Narrative
	err   error
}

func (g *countingGenerator) Generate(context.Context, Context) (model.Narrative, error) {
	g.calls++
	return g.reply, g.err
}

func openCache(t *testing.T, ttl time.Duration) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "radar.db"), ttl, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLiteCache_PutGet(t *testing.T) {
	c := openCache(t, time.Hour)
	n := model.Narrative{Headline: "h", Action: "a"}

	_, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put("k", n))
	got, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, n, got)

	n2 := model.Narrative{Headline: "h2", Action: "a2"}
	require.NoError(t, c.Put("k", n2))
	got, _, _ = c.Get("k")
	assert.Equal(t, n2, got)
}

func TestSQLiteCache_Expiry(t *testing.T) {
	c := openCache(t, 30*time.Minute)
	now := time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put("k", model.Narrative{Headline: "h", Action: "a"}))

	now = now.Add(29 * time.Minute)
	_, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCachedGenerator(t *testing.T) {
	inner := &countingGenerator{reply: model.Narrative{Headline: "h", Action: "a"}}
	g := NewCachedGenerator(inner, openCache(t, time.Hour), logging.Discard())
	in := sampleContext()

	for i := 0; i < 3; i++ {
		n, err := g.Generate(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "h", n.Headline)
	}
	assert.Equal(t, 1, inner.calls)

	in.Score.Value = 85
	_, err := g.Generate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedGenerator_ErrorsAreNotCached(t *testing.T) {
	inner := &countingGenerator{err: errors.New("quota")}
	g := NewCachedGenerator(inner, NewNoopCache(), logging.Discard())

	_, err := g.Generate(context.Background(), sampleContext())
	assert.Error(t, err)
	_, err = g.Generate(context.Background(), sampleContext())
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestKey(t *testing.T) {
	a := sampleContext()
	b := sampleContext()
	b.Score.Risks = []model.RiskFactor{{ID: "tnx", Severity: 61}}
	assert.Equal(t, Key(a), Key(b), "severity within the same 5-point bucket")

	b.Score.Risks[0].Severity = 70
	assert.NotEqual(t, Key(a), Key(b))

	c := sampleContext()
	c.Headlines = nil
	assert.NotEqual(t, Key(a), Key(c))

	d := sampleContext()
	d.Flow = &model.InvestorFlow{Market: "KOSPI", Foreign: 2300}
	assert.NotEqual(t, Key(a), Key(d), "foreign flow turned to net buying")

	w := sampleContext()
	w.Weather = &model.Weather{Summary: "맑음", TempC: 12}
	assert.NotEqual(t, Key(a), Key(w))
	w2 := sampleContext()
	w2.Weather = &model.Weather{Summary: "비", TempC: 12}
	assert.NotEqual(t, Key(w), Key(w2))
}
