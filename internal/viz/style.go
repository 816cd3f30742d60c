package viz

import "github.com/emberwatch/firefront-simulator/model"

// Style is the visual treatment of one scenario's fire front. Purely a
// presentation concern; the geometry core never sees it.
type Style struct {
	Color   string  `yaml:"color" json:"color"`
	Opacity float64 `yaml:"opacity" json:"opacity"`
}

// StyleSet maps the three scenarios to their styles.
type StyleSet struct {
	Best    Style `yaml:"best" json:"best"`
	Neutral Style `yaml:"neutral" json:"neutral"`
	Worst   Style `yaml:"worst" json:"worst"`
}

// DefaultStyles returns the green/orange/red scheme the map client ships
// with.
func DefaultStyles() StyleSet {
	return StyleSet{
		Best:    Style{Color: "#2e7d32", Opacity: 0.35},
		Neutral: Style{Color: "#ef6c00", Opacity: 0.35},
		Worst:   Style{Color: "#c62828", Opacity: 0.35},
	}
}

// For returns the style for a scenario, defaulting to the neutral style for
// unknown values.
func (s StyleSet) For(scenario model.Scenario) Style {
	switch scenario {
	case model.ScenarioBest:
		return s.Best
	case model.ScenarioWorst:
		return s.Worst
	default:
		return s.Neutral
	}
}
