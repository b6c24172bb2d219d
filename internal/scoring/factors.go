package scoring

import (
	"fmt"
	"sort"

	"MorningRadar/internal/model"
)

func (e *Evaluator) extractFactors(contribs []model.Contribution) (risks, opps []model.RiskFactor) {
	risks = []model.RiskFactor{}
	opps = []model.RiskFactor{}

	inputs := make(map[string]model.Input, len(e.rules))
	for _, r := range e.rules {
		inputs[r.ID] = r.Input
	}

	for _, c := range contribs {
		if c.Severity >= e.reportAt && c.Severity > 0 {
			risks = append(risks, model.RiskFactor{
				ID:          c.ID,
				Description: describe(c, inputs[c.ID], model.FactorRisk),
				Severity:    c.Severity,
				Weight:      c.Weight,
				Polarity:    model.FactorRisk,
			})
		}
		if c.Opportunity {
			opps = append(opps, model.RiskFactor{
				ID:          c.ID,
				Description: describe(c, inputs[c.ID], model.FactorOpportunity),
				Severity:    c.Strength,
				Weight:      c.Weight,
				Polarity:    model.FactorOpportunity,
			})
		}
	}

	return e.rank(risks), e.rank(opps)
}

// rank sorts by severity, then weight; equal factors keep configuration order.
func (e *Evaluator) rank(fs []model.RiskFactor) []model.RiskFactor {
	sort.SliceStable(fs, func(i, j int) bool {
		if fs[i].Severity != fs[j].Severity {
			return fs[i].Severity > fs[j].Severity
		}
		return fs[i].Weight > fs[j].Weight
	})
	if e.topN > 0 && len(fs) > e.topN {
		fs = fs[:e.topN]
	}
	return fs
}

func describe(c model.Contribution, in model.Input, pol model.FactorPolarity) string {
	var value string
	switch in {
	case model.InputChange:
		value = fmt.Sprintf("%+.2f%%", c.Input)
	case model.InputDrawdown:
		value = fmt.Sprintf("고점 대비 %+.1f%%", c.Input)
	default:
		value = fmt.Sprintf("%.2f", c.Input)
	}
	if pol == model.FactorOpportunity {
		return fmt.Sprintf("%s %s (안정권)", c.Label, value)
	}
	return fmt.Sprintf("%s %s (위험도 %.0f)", c.Label, value, c.Severity)
}
