package model

import (
	"fmt"
	"math"
)

// Polarity tells which direction of an indicator is dangerous.
type Polarity string

const (
	HigherIsWorse Polarity = "higher_is_worse"
	LowerIsWorse  Polarity = "lower_is_worse"
)

// Input selects which quantity of a Reading is scored.
type Input string

const (
	InputValue    Input = "value"    // Reading.Current
	InputChange   Input = "change"   // Reading.PercentChange
	InputDrawdown Input = "drawdown" // Reading.Drawdown, change when the high is unknown
)

// Rule maps one indicator onto a bounded risk contribution.
type Rule struct {
	ID         string   `json:"id" yaml:"id"`
	Label      string   `json:"label" yaml:"label"`
	DangerLow  float64  `json:"danger_low" yaml:"danger_low"`
	DangerHigh float64  `json:"danger_high" yaml:"danger_high"`
	Polarity   Polarity `json:"polarity" yaml:"polarity"`
	Input      Input    `json:"input,omitempty" yaml:"input"`
	Weight     float64  `json:"weight" yaml:"weight"`
	MaxScore   float64  `json:"max_score" yaml:"max_score"`
	Comfort    *float64 `json:"comfort,omitempty" yaml:"comfort"`
}

// WithDefaults fills zero-valued optional fields.
func (r Rule) WithDefaults() Rule {
	if r.Polarity == "" {
		r.Polarity = HigherIsWorse
	}
	if r.Input == "" {
		if r.Polarity == LowerIsWorse {
			r.Input = InputChange
		} else {
			r.Input = InputValue
		}
	}
	if r.Weight == 0 {
		r.Weight = 1.0
	}
	if r.MaxScore == 0 {
		r.MaxScore = 100
	}
	if r.Label == "" {
		r.Label = r.ID
	}
	return r
}

// Validate checks the rule invariants. Call WithDefaults first.
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	fields := []struct {
		name string
		v    float64
	}{
		{"danger_low", r.DangerLow},
		{"danger_high", r.DangerHigh},
		{"weight", r.Weight},
		{"max_score", r.MaxScore},
	}
	if r.Comfort != nil {
		fields = append(fields, struct {
			name string
			v    float64
		}{"comfort", *r.Comfort})
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("rule %s: %s must be a finite number", r.ID, f.name)
		}
	}
	if !(r.DangerLow < r.DangerHigh) {
		return fmt.Errorf("rule %s: danger_low (%g) must be below danger_high (%g)", r.ID, r.DangerLow, r.DangerHigh)
	}
	if r.Weight <= 0 {
		return fmt.Errorf("rule %s: weight must be positive", r.ID)
	}
	if r.MaxScore <= 0 {
		return fmt.Errorf("rule %s: max_score must be positive", r.ID)
	}
	switch r.Polarity {
	case HigherIsWorse, LowerIsWorse:
	default:
		return fmt.Errorf("rule %s: unknown polarity %q", r.ID, r.Polarity)
	}
	switch r.Input {
	case InputValue, InputChange, InputDrawdown:
	default:
		return fmt.Errorf("rule %s: unknown input %q", r.ID, r.Input)
	}
	if r.Comfort != nil {
		c := *r.Comfort
		// The comfort zone must not overlap the scoring ramp.
		if r.Polarity == HigherIsWorse && c > r.DangerLow {
			return fmt.Errorf("rule %s: comfort %g lies inside the danger range", r.ID, c)
		}
		if r.Polarity == LowerIsWorse && c < -r.DangerLow {
			return fmt.Errorf("rule %s: comfort %g lies inside the danger range", r.ID, c)
		}
	}
	return nil
}
