package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"MorningRadar/internal/model"
)

// ErrNoRules is returned when no valid indicator rule is configured.
var ErrNoRules = errors.New("no valid indicator rules configured")

// DefaultReportAt is the severity (0~100) from which an indicator is reported as a risk factor.
const DefaultReportAt = 50.0

// Settings is the declarative configuration of an Evaluator.
type Settings struct {
	Rules       []model.Rule
	Bands       []model.Band       // ascending by Min; DefaultBands when empty
	Escalations []model.Escalation // DefaultEscalations when empty
	ReportAt    float64            // DefaultReportAt when 0
	TopN        int                // 0 keeps every factor
}

// Evaluator reduces a set of readings to one CompositeScore.
// It holds only immutable configuration and is safe for concurrent use.
type Evaluator struct {
	rules       []model.Rule
	bands       []model.Band
	escalations []model.Escalation
	reportAt    float64
	topN        int
	skipped     []error
}

// NewEvaluator validates the settings. Malformed rules are skipped and
// reported by Skipped; an empty rule set or a broken band table is an error.
func NewEvaluator(s Settings) (*Evaluator, error) {
	e := &Evaluator{reportAt: s.ReportAt, topN: s.TopN}
	if e.reportAt <= 0 {
		e.reportAt = DefaultReportAt
	}
	if e.topN < 0 {
		e.topN = 0
	}

	seen := make(map[string]bool, len(s.Rules))
	for _, r := range s.Rules {
		r = r.WithDefaults()
		if err := r.Validate(); err != nil {
			e.skipped = append(e.skipped, err)
			continue
		}
		if seen[r.ID] {
			e.skipped = append(e.skipped, fmt.Errorf("rule %s: duplicate id", r.ID))
			continue
		}
		seen[r.ID] = true
		e.rules = append(e.rules, r)
	}
	if len(e.rules) == 0 {
		return nil, ErrNoRules
	}

	bands := s.Bands
	if len(bands) == 0 {
		bands = DefaultBands
	}
	if err := validateBands(bands); err != nil {
		return nil, fmt.Errorf("validate bands: %w", err)
	}
	e.bands = make([]model.Band, len(bands))
	for i, b := range bands {
		b.Rank = i
		e.bands[i] = b
	}

	esc := s.Escalations
	if len(esc) == 0 {
		esc = DefaultEscalations
	}
	e.escalations = append([]model.Escalation(nil), esc...)
	sort.SliceStable(e.escalations, func(i, j int) bool { return e.escalations[i].At > e.escalations[j].At })

	return e, nil
}

// Rules returns the active rules in configuration order.
func (e *Evaluator) Rules() []model.Rule {
	return append([]model.Rule(nil), e.rules...)
}

// Bands returns the band table.
func (e *Evaluator) Bands() []model.Band {
	return append([]model.Band(nil), e.bands...)
}

// Skipped returns the validation errors of rules that were ignored.
func (e *Evaluator) Skipped() []error {
	return append([]error(nil), e.skipped...)
}

// Evaluate scores the readings. Indicators without a valid reading are left
// out of both the weighted mean and the escalation check.
func (e *Evaluator) Evaluate(readings map[string]model.Reading) model.CompositeScore {
	out := model.CompositeScore{
		Configured:    len(e.rules),
		Risks:         []model.RiskFactor{},
		Opportunities: []model.RiskFactor{},
		Contributions: []model.Contribution{},
	}

	var weighted, weights float64
	for _, rule := range e.rules {
		r, ok := readings[rule.ID]
		if !ok || !r.Valid() {
			out.Missing = append(out.Missing, rule.ID)
			continue
		}
		m := measure(r, rule)
		severity := m.score / rule.MaxScore * 100

		out.Contributions = append(out.Contributions, model.Contribution{
			ID:          rule.ID,
			Label:       rule.Label,
			Input:       m.input,
			Score:       m.score,
			Severity:    severity,
			Weight:      rule.Weight,
			Opportunity: m.opportunity,
			Strength:    m.strength,
			Current:     r.Current,
			ChangePct:   r.PercentChange(),
		})

		weighted += severity * rule.Weight
		weights += rule.Weight
		out.MaxSingle = max(out.MaxSingle, severity)
	}

	if weights > 0 {
		// the epsilon absorbs float drift such as 59.999999 for an exact 60
		out.Raw = int(math.Floor(weighted/weights + 1e-9))
	}

	final := out.Raw
	for _, step := range e.escalations {
		if out.MaxSingle >= step.At && step.Floor > final {
			final = step.Floor
			out.Escalated = true
		}
	}
	out.Value = min(max(final, 0), 100)
	out.Level = mapBand(e.bands, out.Value)

	out.Risks, out.Opportunities = e.extractFactors(out.Contributions)
	return out
}
