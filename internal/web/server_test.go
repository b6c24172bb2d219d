package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MorningRadar/internal/board"
	"MorningRadar/internal/logging"
	"MorningRadar/internal/metrics"
	"MorningRadar/internal/model"
	"MorningRadar/internal/narrative"
)

type fakeBoard struct {
	latest    *board.Report
	refreshes int
}

func (f *fakeBoard) Refresh(context.Context) *board.Report {
	f.refreshes++
	f.latest = report()
	return f.latest
}

func (f *fakeBoard) Latest() *board.Report { return f.latest }

func report() *board.Report {
	return &board.Report{
		ID:          "01JNK7W0000000000000000000",
		GeneratedAt: time.Date(2026, 3, 2, 7, 30, 0, 0, time.UTC),
		Score: model.CompositeScore{
			Value:      60,
			Raw:        33,
			Escalated:  true,
			Level:      model.Band{Min: 60, Label: "위험", Color: "orange"},
			Risks:      []model.RiskFactor{{ID: "tnx", Description: "미 10년물 4.60 (위험도 100)"}},
			Configured: 2,
			Contributions: []model.Contribution{
				{ID: "tnx", Label: "미 10년물", Current: 4.6, ChangePct: 2.1, Severity: 100, Weight: 1},
			},
			Missing: []string{"oil"},
		},
		Snapshot: model.Snapshot{
			Headlines: []model.Headline{{Title: "<script>alert(1)</script>", URL: "https://example.com/a"}},
		},
		Narrative: narrative.Result{
			Narrative: model.Narrative{Headline: "금리 경계", Action: "관망하세요"},
			Source:    narrative.SourceModel,
		},
	}
}

func newTestServer(t *testing.T, b Board) *Server {
	t.Helper()
	s, err := NewServer(b, metrics.NewRegistry(), 300, logging.Discard())
	require.NoError(t, err)
	return s
}

func do(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestDashboard_BeforeFirstRefresh(t *testing.T) {
	s := newTestServer(t, &fakeBoard{})
	w := do(s, http.MethodGet, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "첫 데이터를 수집하는 중입니다")
	assert.Contains(t, w.Body.String(), `content="300"`)
}

func TestDashboard_RendersReport(t *testing.T) {
	s := newTestServer(t, &fakeBoard{latest: report()})
	body := do(s, http.MethodGet, "/").Body.String()

	assert.Contains(t, body, "band-orange")
	assert.Contains(t, body, "금리 경계")
	assert.Contains(t, body, "미 10년물 4.60 (위험도 100)")
	assert.Contains(t, body, "+2.10%")
	assert.Contains(t, body, "수집 실패: oil")
	assert.Contains(t, body, "지표 수집률 50%")
	assert.NotContains(t, body, "<script>alert(1)</script>")
}

func TestScoreAPI(t *testing.T) {
	b := &fakeBoard{}
	s := newTestServer(t, b)

	w := do(s, http.MethodGet, "/api/score")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	b.latest = report()
	w = do(s, http.MethodGet, "/api/score")
	require.Equal(t, http.StatusOK, w.Code)

	var got board.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 60, got.Score.Value)
	assert.Equal(t, "위험", got.Score.Level.Label)
	assert.Equal(t, narrative.SourceModel, got.Narrative.Source)
}

func TestRefreshAPI(t *testing.T) {
	b := &fakeBoard{}
	s := newTestServer(t, b)

	assert.Equal(t, http.StatusNotFound, do(s, http.MethodGet, "/api/refresh").Code)

	w := do(s, http.MethodPost, "/api/refresh")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, b.refreshes)
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer(t, &fakeBoard{latest: report()})

	w := do(s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"coverage":0.5`)

	w = do(s, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "radar_risk_score")
}
