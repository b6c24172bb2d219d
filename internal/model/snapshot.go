package model

import "time"

// Narrative is a short headline plus a recommended action.
type Narrative struct {
	Headline string `json:"headline"`
	Action   string `json:"action"`
}

// Weather is the current local weather.
type Weather struct {
	TempC   float64 `json:"temp_c"`
	WindKmh float64 `json:"wind_kmh"`
	Code    int     `json:"code"`
	Summary string  `json:"summary"`
}

// InvestorFlow holds net buying per investor group, in units of 100M KRW.
type InvestorFlow struct {
	Market      string  `json:"market"`
	Foreign     float64 `json:"foreign"`
	Institution float64 `json:"institution"`
	Individual  float64 `json:"individual"`
}

// Headline is one scraped news title.
type Headline struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Snapshot is everything fetched in one cycle.
type Snapshot struct {
	Readings  map[string]Reading `json:"readings"`
	Failures  map[string]string  `json:"failures,omitempty"`
	Weather   *Weather           `json:"weather,omitempty"`
	Flow      *InvestorFlow      `json:"flow,omitempty"`
	Headlines []Headline         `json:"headlines,omitempty"`
	FetchedAt time.Time          `json:"fetched_at"`
}
