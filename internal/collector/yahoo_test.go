package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartJSON = `{"chart":{"result":[{"timestamp":[1767571200,1767657600,1767744000,1767830400],
"indicators":{"quote":[{"open":[4.1,4.2,null,4.3],"high":[4.2,4.3,null,4.4],"low":[4.0,4.1,null,4.2],
"close":[4.15,4.25,null,4.35],"volume":[0,0,null,0]}]}}],"error":null}}`

func TestYahooFetcher_FetchBars(t *testing.T) {
	var gotPath, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotRange = r.URL.Query().Get("range")
		w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL+"/", srv.Client())
	bars, err := f.FetchBars(context.Background(), "^TNX", 2)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/%5ETNX", gotPath)
	assert.Equal(t, "5d", gotRange)
	require.Len(t, bars, 2, "null bar skipped and trimmed to the requested days")
	assert.Equal(t, 4.25, bars[0].Close)
	assert.Equal(t, 4.35, bars[1].Close)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusTooManyRequests, "slow down"},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`},
		{"bad json", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewYahooFetcher(srv.URL, srv.Client()).FetchBars(context.Background(), "CL=F", 5)
			assert.Error(t, err)
		})
	}
}

func TestYahooFetcher_HonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewYahooFetcher(srv.URL, srv.Client()).FetchBars(ctx, "^TNX", 2)
	assert.Error(t, err)
}

func TestRangeFor(t *testing.T) {
	assert.Equal(t, "5d", rangeFor(2))
	assert.Equal(t, "1mo", rangeFor(20))
	assert.Equal(t, "3mo", rangeFor(60))
	assert.Equal(t, "1y", rangeFor(200))
	assert.Equal(t, "2y", rangeFor(400))
}
