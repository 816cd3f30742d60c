package model

// Scenario names one of the three risk cases the simulator animates
// simultaneously. Scenarios share the same shape model and wind parameters;
// they differ only in the multiplier applied to the effective spread rate.
type Scenario string

const (
	ScenarioBest    Scenario = "best"
	ScenarioNeutral Scenario = "neutral"
	ScenarioWorst   Scenario = "worst"
)

// Scenarios lists all scenarios in ascending multiplier order. Consumers rely
// on this ordering when asserting best <= neutral <= worst radii.
func Scenarios() []Scenario {
	return []Scenario{ScenarioBest, ScenarioNeutral, ScenarioWorst}
}

// Valid reports whether s is one of the three known scenarios.
func (s Scenario) Valid() bool {
	switch s {
	case ScenarioBest, ScenarioNeutral, ScenarioWorst:
		return true
	}
	return false
}
