package config

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"MorningRadar/internal/model"
	"MorningRadar/internal/scoring"
)

// DefaultPreset is used when neither indicators nor a preset are configured.
const DefaultPreset = "classic"

//go:embed presets/*.yaml
var presetFS embed.FS

// Preset is a named, versioned rule table.
type Preset struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Indicators  []Indicator        `yaml:"indicators"`
	Bands       []model.Band       `yaml:"bands"`
	Escalations []model.Escalation `yaml:"escalations"`
}

// LoadPreset reads an embedded preset by name.
func LoadPreset(name string) (*Preset, error) {
	data, err := presetFS.ReadFile(path.Join("presets", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", name, err)
	}
	for i := range p.Indicators {
		if p.Indicators[i].Source == "" {
			p.Indicators[i].Source = SourceQuote
		}
	}
	return &p, nil
}

// PresetNames lists the embedded presets in alphabetical order.
func PresetNames() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Rules returns the scoring rules in indicator order.
func (c *Config) Rules() []model.Rule {
	rules := make([]model.Rule, len(c.Indicators))
	for i, ind := range c.Indicators {
		rules[i] = ind.Rule
	}
	return rules
}

// ScoringSettings builds the evaluator configuration.
func (c *Config) ScoringSettings() scoring.Settings {
	return scoring.Settings{
		Rules:       c.Rules(),
		Bands:       c.Bands,
		Escalations: c.Escalations,
		ReportAt:    c.Scoring.ReportAt,
		TopN:        c.Scoring.TopN,
	}
}

// UsePreset replaces the indicator table, bands and escalations with a preset.
func (c *Config) UsePreset(name string) error {
	p, err := LoadPreset(name)
	if err != nil {
		return err
	}
	c.Preset = name
	c.Indicators = p.Indicators
	c.Bands = p.Bands
	c.Escalations = p.Escalations
	return nil
}
