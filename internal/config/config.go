package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MorningRadar/internal/model"
)

// Indicator sources.
const (
	SourceQuote = "quote"
	SourceFlow  = "flow"
)

// Indicator is one scored quantity: where to fetch it and how to score it.
type Indicator struct {
	model.Rule `yaml:",inline"`

	Symbol   string `yaml:"symbol"`
	Source   string `yaml:"source"`   // quote (default) or flow
	Field    string `yaml:"field"`    // flow field: foreign, institution, individual
	Lookback int    `yaml:"lookback"` // trailing bars for the drawdown input
}

// Config holds all application configuration.
type Config struct {
	Preset      string             `yaml:"preset"`
	Indicators  []Indicator        `yaml:"indicators"`
	Bands       []model.Band       `yaml:"bands"`
	Escalations []model.Escalation `yaml:"escalations"`
	Scoring     struct {
		ReportAt float64 `yaml:"report_at"`
		TopN     int     `yaml:"top_n"`
	} `yaml:"scoring"`
	Sources struct {
		QuoteBaseURL string `yaml:"quote_base_url"`
		Weather      struct {
			BaseURL   string  `yaml:"base_url"`
			Latitude  float64 `yaml:"latitude"`
			Longitude float64 `yaml:"longitude"`
			Disabled  bool    `yaml:"disabled"`
		} `yaml:"weather"`
		Flow struct {
			URL                 string `yaml:"url"`
			Market              string `yaml:"market"`
			ForeignSelector     string `yaml:"foreign_selector"`
			InstitutionSelector string `yaml:"institution_selector"`
			IndividualSelector  string `yaml:"individual_selector"`
		} `yaml:"flow"`
		News struct {
			URL      string `yaml:"url"`
			Selector string `yaml:"selector"`
			Limit    int    `yaml:"limit"`
		} `yaml:"news"`
	} `yaml:"sources"`
	Fetch struct {
		TimeoutSec  int     `yaml:"timeout_sec"`
		RatePerSec  float64 `yaml:"rate_per_sec"`
		Burst       int     `yaml:"burst"`
		Concurrency int     `yaml:"concurrency"`
	} `yaml:"fetch"`
	Narrative struct {
		Enabled     bool   `yaml:"enabled"`
		BaseURL     string `yaml:"base_url"`
		Model       string `yaml:"model"`
		APIKey      string `yaml:"api_key"`
		TimeoutSec  int    `yaml:"timeout_sec"`
		CacheTTLMin int    `yaml:"cache_ttl_min"`
	} `yaml:"narrative"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		MorningCron string `yaml:"morning_cron"`
	} `yaml:"schedule"`
	Web struct {
		Listen     string `yaml:"listen"`
		RefreshSec int    `yaml:"refresh_sec"`
	} `yaml:"web"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env, environment overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the process environment
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RADAR_PRESET"); v != "" {
		c.Preset = v
		c.Indicators = nil
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.Narrative.APIKey = v
		c.Narrative.Enabled = true
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("RADAR_LISTEN"); v != "" {
		c.Web.Listen = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		c.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scoring.TopN = n
		}
	}
}

func (c *Config) applyDefaults() error {
	if c.Preset == "" && len(c.Indicators) == 0 {
		c.Preset = DefaultPreset
	}
	if len(c.Indicators) == 0 {
		p, err := LoadPreset(c.Preset)
		if err != nil {
			return err
		}
		c.Indicators = p.Indicators
		if len(c.Bands) == 0 {
			c.Bands = p.Bands
		}
		if c.Escalations == nil {
			c.Escalations = p.Escalations
		}
	}
	for i := range c.Indicators {
		if c.Indicators[i].Source == "" {
			c.Indicators[i].Source = SourceQuote
		}
	}

	if c.Scoring.TopN == 0 {
		c.Scoring.TopN = 3
	}
	if c.Sources.QuoteBaseURL == "" {
		c.Sources.QuoteBaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Sources.Weather.BaseURL == "" {
		c.Sources.Weather.BaseURL = "https://api.open-meteo.com"
	}
	if c.Sources.Weather.Latitude == 0 && c.Sources.Weather.Longitude == 0 {
		// Seoul
		c.Sources.Weather.Latitude = 37.5665
		c.Sources.Weather.Longitude = 126.9780
	}
	if c.Sources.Flow.URL == "" {
		c.Sources.Flow.URL = "https://finance.naver.com/sise/sise_index.naver?code=KOSPI"
	}
	if c.Sources.Flow.Market == "" {
		c.Sources.Flow.Market = "KOSPI"
	}
	if c.Sources.Flow.IndividualSelector == "" {
		c.Sources.Flow.IndividualSelector = "dl.lst_kos_info dd:nth-of-type(1) span"
	}
	if c.Sources.Flow.ForeignSelector == "" {
		c.Sources.Flow.ForeignSelector = "dl.lst_kos_info dd:nth-of-type(2) span"
	}
	if c.Sources.Flow.InstitutionSelector == "" {
		c.Sources.Flow.InstitutionSelector = "dl.lst_kos_info dd:nth-of-type(3) span"
	}
	if c.Sources.News.URL == "" {
		c.Sources.News.URL = "https://finance.naver.com/news/mainnews.naver"
	}
	if c.Sources.News.Selector == "" {
		c.Sources.News.Selector = "dd.articleSubject a"
	}
	if c.Sources.News.Limit == 0 {
		c.Sources.News.Limit = 5
	}
	if c.Fetch.TimeoutSec == 0 {
		c.Fetch.TimeoutSec = 10
	}
	if c.Fetch.RatePerSec == 0 {
		c.Fetch.RatePerSec = 2
	}
	if c.Fetch.Burst == 0 {
		c.Fetch.Burst = 4
	}
	if c.Fetch.Concurrency == 0 {
		c.Fetch.Concurrency = 4
	}
	if c.Narrative.BaseURL == "" {
		c.Narrative.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if c.Narrative.Model == "" {
		c.Narrative.Model = "gemini-1.5-flash"
	}
	if c.Narrative.TimeoutSec == 0 {
		c.Narrative.TimeoutSec = 20
	}
	if c.Narrative.CacheTTLMin == 0 {
		c.Narrative.CacheTTLMin = 30
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if c.Schedule.MorningCron == "" {
		c.Schedule.MorningCron = "0 30 7 * * 1-5"
	}
	if c.Web.Listen == "" {
		c.Web.Listen = ":8501"
	}
	if c.Web.RefreshSec == 0 {
		c.Web.RefreshSec = 300
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/morning_radar.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	return nil
}
