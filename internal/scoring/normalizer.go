package scoring

import "MorningRadar/internal/model"

// Normalize maps a reading onto the rule's 0~MaxScore risk scale and reports
// whether it sits in the rule's comfort zone. A malformed rule scores 0.
func Normalize(r model.Reading, rule model.Rule) (float64, bool) {
	m := measure(r, rule.WithDefaults())
	return m.score, m.opportunity
}

type measurement struct {
	input       float64
	score       float64
	opportunity bool
	strength    float64
}

// measure assumes rule defaults are applied.
func measure(r model.Reading, rule model.Rule) measurement {
	if rule.Validate() != nil || !r.Valid() {
		return measurement{}
	}

	v := selectInput(r, rule.Input)
	x := v
	if rule.Polarity == model.LowerIsWorse {
		// only downside moves carry risk
		x = max(0, -v)
	}

	m := measurement{input: v, score: ramp(x, rule.DangerLow, rule.DangerHigh, rule.MaxScore)}

	if rule.Comfort != nil {
		c := *rule.Comfort
		var beyond float64
		switch rule.Polarity {
		case model.HigherIsWorse:
			m.opportunity = v <= c
			beyond = c - v
		case model.LowerIsWorse:
			m.opportunity = v >= c
			beyond = v - c
		}
		if m.opportunity {
			m.strength = clamp(beyond/(rule.DangerHigh-rule.DangerLow)*100, 0, 100)
		}
	}
	return m
}

func selectInput(r model.Reading, in model.Input) float64 {
	switch in {
	case model.InputChange:
		return r.PercentChange()
	case model.InputDrawdown:
		if r.High > 0 {
			return r.Drawdown()
		}
		return r.PercentChange()
	default:
		return r.Current
	}
}

// ramp is the piecewise-linear clamp-and-scale mapping.
func ramp(x, low, high, maxScore float64) float64 {
	switch {
	case x <= low:
		return 0
	case x >= high:
		return maxScore
	default:
		return (x - low) / (high - low) * maxScore
	}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
