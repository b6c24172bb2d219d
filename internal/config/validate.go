package config

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"MorningRadar/internal/model"
)

// CronParser accepts the 6-field (seconds) specs used by the scheduler, plus descriptors.
var CronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks structural problems that must stop startup.
// Individual rules with bad thresholds are skipped later by the evaluator.
func (c *Config) Validate() error {
	if len(c.Indicators) == 0 {
		return fmt.Errorf("at least one indicator is required")
	}
	seen := make(map[string]bool, len(c.Indicators))
	for _, ind := range c.Indicators {
		if ind.ID == "" {
			return fmt.Errorf("indicator id is required")
		}
		if seen[ind.ID] {
			return fmt.Errorf("indicator %s: duplicate id", ind.ID)
		}
		seen[ind.ID] = true
		switch ind.Source {
		case SourceQuote:
			if ind.Symbol == "" {
				return fmt.Errorf("indicator %s: symbol is required for quote source", ind.ID)
			}
		case SourceFlow:
			switch ind.Field {
			case "foreign", "institution", "individual":
			default:
				return fmt.Errorf("indicator %s: unknown flow field %q", ind.ID, ind.Field)
			}
			// Flows are daily net amounts with no previous close.
			if in := ind.WithDefaults().Input; in != model.InputValue {
				return fmt.Errorf("indicator %s: flow indicators need input %q, got %q", ind.ID, model.InputValue, in)
			}
		default:
			return fmt.Errorf("indicator %s: unknown source %q", ind.ID, ind.Source)
		}
		if ind.Lookback < 0 {
			return fmt.Errorf("indicator %s: lookback must not be negative", ind.ID)
		}
	}
	if _, err := CronParser.Parse(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("schedule.refresh_cron: %w", err)
	}
	if _, err := CronParser.Parse(c.Schedule.MorningCron); err != nil {
		return fmt.Errorf("schedule.morning_cron: %w", err)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	if c.Narrative.Enabled && c.Narrative.APIKey == "" {
		return fmt.Errorf("narrative.api_key is required when narrative is enabled")
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch.concurrency must be positive")
	}
	return nil
}
