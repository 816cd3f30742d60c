package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/emberwatch/firefront-simulator/core"
	"github.com/emberwatch/firefront-simulator/internal/envdata"
	"github.com/emberwatch/firefront-simulator/internal/viz"
)

// Config is the server's YAML-backed configuration.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr"`

	Simulation  SimulationConfig  `yaml:"simulation"`
	Environment EnvironmentConfig `yaml:"environment"`
	Styles      viz.StyleSet      `yaml:"styles"`
}

// SimulationConfig carries the tunables of the spread model and clock.
type SimulationConfig struct {
	// TotalSimulatedMinutes is the fixed simulated horizon of a run.
	TotalSimulatedMinutes int `yaml:"total_simulated_minutes"`
	// MinutesPerStep is the simulated duration of one time index.
	MinutesPerStep int `yaml:"minutes_per_step"`
	// MinSpacingPx is the boundary point spacing floor in screen units.
	MinSpacingPx float64 `yaml:"min_spacing_px"`
	// AngularStepRad is the boundary sweep increment.
	AngularStepRad float64 `yaml:"angular_step_rad"`
	// Multipliers is the best/neutral/worst rate multiplier triple.
	Multipliers core.Multipliers `yaml:"multipliers"`
	// ProjectionZoom is the Web-Mercator zoom level geometry is computed at.
	ProjectionZoom int `yaml:"projection_zoom"`
}

// StepCount derives the final time index of the simulation clock.
func (c SimulationConfig) StepCount() int {
	if c.MinutesPerStep <= 0 {
		return 0
	}
	return c.TotalSimulatedMinutes / c.MinutesPerStep
}

// EnvironmentConfig names the environmental service endpoints and polling
// cadence.
type EnvironmentConfig struct {
	PollIntervalMS   int    `yaml:"poll_interval_ms"`
	FetchTimeoutMS   int    `yaml:"fetch_timeout_ms"`
	WeatherBaseURL   string `yaml:"weather_base_url"`
	ElevationBaseURL string `yaml:"elevation_base_url"`
	LandCoverBaseURL string `yaml:"land_cover_base_url"`
}

// PollInterval returns the polling cadence as a duration.
func (c EnvironmentConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// ProviderConfig converts to the envdata client configuration.
func (c EnvironmentConfig) ProviderConfig() envdata.Config {
	return envdata.Config{
		WeatherBaseURL:   c.WeatherBaseURL,
		ElevationBaseURL: c.ElevationBaseURL,
		LandCoverBaseURL: c.LandCoverBaseURL,
		Timeout:          time.Duration(c.FetchTimeoutMS) * time.Millisecond,
	}
}

// DefaultConfig returns the configuration the server runs with when no file
// is supplied: a 60-minute horizon in 2-minute steps (30 indices), the
// standard multiplier triple, and public open-meteo endpoints.
func DefaultConfig() Config {
	return Config{
		ListenAddr:  ":8080",
		MetricsAddr: ":9090",
		Simulation: SimulationConfig{
			TotalSimulatedMinutes: 60,
			MinutesPerStep:        2,
			MinSpacingPx:          core.DefaultMinSpacing,
			AngularStepRad:        core.DefaultAngularStep,
			Multipliers:           core.DefaultMultipliers(),
			ProjectionZoom:        13,
		},
		Environment: EnvironmentConfig{
			PollIntervalMS:   1000,
			FetchTimeoutMS:   5000,
			WeatherBaseURL:   "https://api.open-meteo.com",
			ElevationBaseURL: "https://api.open-meteo.com",
			LandCoverBaseURL: "http://localhost:8091",
		},
		Styles: viz.DefaultStyles(),
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Simulation.StepCount() <= 0 {
		return fmt.Errorf("simulation horizon yields no steps (total=%dm, per-step=%dm)",
			c.Simulation.TotalSimulatedMinutes, c.Simulation.MinutesPerStep)
	}
	if !c.Simulation.Multipliers.Ordered() {
		return fmt.Errorf("scenario multipliers must satisfy best <= neutral <= worst, got %+v",
			c.Simulation.Multipliers)
	}
	if c.Environment.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive")
	}
	return nil
}
