package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"MorningRadar/internal/model"
)

// WeatherClient reads current conditions from the Open-Meteo forecast API.
type WeatherClient struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	Client    *http.Client
}

// NewWeatherClient creates a weather client for one location.
func NewWeatherClient(baseURL string, lat, lon float64, client *http.Client) *WeatherClient {
	return &WeatherClient{BaseURL: strings.TrimRight(baseURL, "/"), Latitude: lat, Longitude: lon, Client: client}
}

type openMeteoResponse struct {
	Current *struct {
		Temperature float64 `json:"temperature_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

func (w *WeatherClient) FetchWeather(ctx context.Context) (*model.Weather, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", w.Latitude))
	q.Set("longitude", fmt.Sprintf("%.4f", w.Longitude))
	q.Set("current", "temperature_2m,wind_speed_10m,weather_code")
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+"/v1/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := w.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather: status %d", resp.StatusCode)
	}

	var out openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("weather decode: %w", err)
	}
	if out.Current == nil {
		return nil, fmt.Errorf("weather: no current conditions")
	}
	return &model.Weather{
		TempC:   out.Current.Temperature,
		WindKmh: out.Current.WindSpeed,
		Code:    out.Current.WeatherCode,
		Summary: describeWeather(out.Current.WeatherCode),
	}, nil
}

// describeWeather maps a WMO weather code to a short label.
func describeWeather(code int) string {
	switch {
	case code == 0:
		return "맑음"
	case code <= 3:
		return "구름 조금"
	case code == 45 || code == 48:
		return "안개"
	case code >= 51 && code <= 67:
		return "비"
	case code >= 71 && code <= 77:
		return "눈"
	case code >= 80 && code <= 82:
		return "소나기"
	case code >= 85 && code <= 86:
		return "눈보라"
	case code >= 95:
		return "뇌우"
	default:
		return "흐림"
	}
}
