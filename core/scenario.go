package core

import "github.com/emberwatch/firefront-simulator/model"

// Multipliers maps each scenario to its fixed spread-rate multiplier.
// A zero value is unusable; use DefaultMultipliers or load from config.
type Multipliers struct {
	Best    float64 `yaml:"best" json:"best"`
	Neutral float64 `yaml:"neutral" json:"neutral"`
	Worst   float64 `yaml:"worst" json:"worst"`
}

// DefaultMultipliers is the standard 0.8 / 1.0 / 1.2 triple.
func DefaultMultipliers() Multipliers {
	return Multipliers{Best: 0.8, Neutral: 1.0, Worst: 1.2}
}

// For returns the multiplier for a scenario. Unknown scenarios fall back to
// the neutral multiplier.
func (m Multipliers) For(s model.Scenario) float64 {
	switch s {
	case model.ScenarioBest:
		return m.Best
	case model.ScenarioWorst:
		return m.Worst
	default:
		return m.Neutral
	}
}

// Ordered reports whether the triple satisfies best <= neutral <= worst.
// Radius monotonicity across scenarios follows directly from this.
func (m Multipliers) Ordered() bool {
	return m.Best <= m.Neutral && m.Neutral <= m.Worst
}

// ScenarioRadius returns the fire-front base radius for a scenario at a
// discrete time index, in the same distance units the rate carries (metres,
// given SpreadRate). Index 0 is always radius 0.
func ScenarioRadius(m Multipliers, s model.Scenario, index int, rate float64) float64 {
	return float64(index) * rate * m.For(s)
}
