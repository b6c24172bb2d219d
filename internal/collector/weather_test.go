package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherClient(t *testing.T) {
	var lat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat = r.URL.Query().Get("latitude")
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		w.Write([]byte(`{"current":{"temperature_2m":-3.5,"wind_speed_10m":12.0,"weather_code":71}}`))
	}))
	defer srv.Close()

	w, err := NewWeatherClient(srv.URL, 37.5665, 126.978, srv.Client()).FetchWeather(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "37.5665", lat)
	assert.Equal(t, -3.5, w.TempC)
	assert.Equal(t, 71, w.Code)
	assert.Equal(t, "눈", w.Summary)
}

func TestWeatherClient_NoCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewWeatherClient(srv.URL, 0, 0, srv.Client()).FetchWeather(context.Background())
	assert.Error(t, err)
}

func TestDescribeWeather(t *testing.T) {
	assert.Equal(t, "맑음", describeWeather(0))
	assert.Equal(t, "구름 조금", describeWeather(2))
	assert.Equal(t, "비", describeWeather(61))
	assert.Equal(t, "뇌우", describeWeather(95))
}
