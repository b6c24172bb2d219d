package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexPage = `<html><head><meta charset="utf-8"></head><body>
<dl class="lst_kos_info">
  <dt>투자자별 매매동향</dt>
  <dd class="dd">개인<span class="rate_up">+2,345</span>억</dd>
  <dd class="dd">외국인<span class="rate_down">-1,870</span>억</dd>
  <dd class="dd">기관<span class="rate_down">-412</span>억</dd>
</dl></body></html>`

const newsPage = `<html><head><meta charset="utf-8"></head><body><dl>
<dd class="articleSubject"><a href="/news/read.naver?id=1">코스피, 외국인 매도에 하락</a></dd>
<dd class="articleSubject"><a href="/news/read.naver?id=2">  환율   1,400원 돌파 </a></dd>
<dd class="articleSubject"><a href="/news/read.naver?id=1">코스피, 외국인 매도에 하락</a></dd>
<dd class="articleSubject"><a href="https://example.com/x">반도체 수출 회복</a></dd>
</dl></body></html>`

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFlowScraper(t *testing.T) {
	srv := serve(t, indexPage)
	s := &FlowScraper{
		URL:                 srv.URL,
		Market:              "KOSPI",
		IndividualSelector:  "dl.lst_kos_info dd:nth-of-type(1) span",
		ForeignSelector:     "dl.lst_kos_info dd:nth-of-type(2) span",
		InstitutionSelector: "dl.lst_kos_info dd:nth-of-type(3) span",
		Client:              srv.Client(),
	}

	flow, err := s.FetchFlow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "KOSPI", flow.Market)
	assert.Equal(t, 2345.0, flow.Individual)
	assert.Equal(t, -1870.0, flow.Foreign)
	assert.Equal(t, -412.0, flow.Institution)
}

func TestFlowScraper_MissingSelector(t *testing.T) {
	srv := serve(t, "<html><body>maintenance</body></html>")
	s := &FlowScraper{URL: srv.URL, ForeignSelector: "span.x", InstitutionSelector: "span.y", IndividualSelector: "span.z", Client: srv.Client()}

	_, err := s.FetchFlow(context.Background())
	assert.Error(t, err)
}

func TestNewsScraper(t *testing.T) {
	srv := serve(t, newsPage)
	s := &NewsScraper{URL: srv.URL + "/news/mainnews.naver", Selector: "dd.articleSubject a", Limit: 5, Client: srv.Client()}

	got, err := s.FetchHeadlines(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3, "duplicates dropped")
	assert.Equal(t, "코스피, 외국인 매도에 하락", got[0].Title)
	assert.Equal(t, srv.URL+"/news/read.naver?id=1", got[0].URL)
	assert.Equal(t, "환율 1,400원 돌파", got[1].Title)
	assert.Equal(t, "https://example.com/x", got[2].URL)

	s.Limit = 1
	got, err = s.FetchHeadlines(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		err  bool
	}{
		{"+1,234", 1234, false},
		{"-567억", -567, false},
		{"▼ 89", -89, false},
		{"12.5", 12.5, false},
		{"없음", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
