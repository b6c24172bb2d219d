package model

// FactorPolarity marks a factor as a risk or an opportunity.
type FactorPolarity string

const (
	FactorRisk        FactorPolarity = "risk"
	FactorOpportunity FactorPolarity = "opportunity"
)

// Band maps a score range to a label and a recommended action.
type Band struct {
	Min    int    `json:"min" yaml:"min"` // inclusive lower bound
	Rank   int    `json:"rank" yaml:"-"`
	Label  string `json:"label" yaml:"label"`
	Action string `json:"action" yaml:"action"`
	Color  string `json:"color" yaml:"color"`
}

// Escalation raises the final score to Floor when any single severity reaches At.
type Escalation struct {
	At    float64 `json:"at" yaml:"at"`
	Floor int     `json:"floor" yaml:"floor"`
}

// RiskFactor is one human-readable explanation unit.
type RiskFactor struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Severity    float64        `json:"severity"` // 0~100
	Weight      float64        `json:"weight"`
	Polarity    FactorPolarity `json:"polarity"`
}

// Contribution is the per-indicator scoring detail of one evaluation.
type Contribution struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Input float64 `json:"input"` // selected input before polarity
	// Score is on the rule's own 0~MaxScore scale; Severity rescales it to 0~100.
	Score       float64 `json:"score"`
	Severity    float64 `json:"severity"`
	Weight      float64 `json:"weight"`
	Opportunity bool    `json:"opportunity"`
	Strength    float64 `json:"strength"`
	Current     float64 `json:"current"`
	ChangePct   float64 `json:"change_pct"`
}

// CompositeScore is the final output of the evaluator.
type CompositeScore struct {
	Value         int            `json:"value"`
	Raw           int            `json:"raw"` // truncated weighted mean before escalation
	MaxSingle     float64        `json:"max_single"`
	Escalated     bool           `json:"escalated"`
	Level         Band           `json:"level"`
	Risks         []RiskFactor   `json:"risks"`
	Opportunities []RiskFactor   `json:"opportunities"`
	Contributions []Contribution `json:"contributions"`
	Missing       []string       `json:"missing,omitempty"`
	Configured    int            `json:"configured"`
}

// Coverage returns the share of configured indicators that were scored.
func (c CompositeScore) Coverage() float64 {
	if c.Configured == 0 {
		return 0
	}
	return float64(len(c.Contributions)) / float64(c.Configured)
}
