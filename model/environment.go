package model

import "time"

// FuelDensity classifies the burnable material at the ignition site.
type FuelDensity string

const (
	FuelDense  FuelDensity = "dense"
	FuelSparse FuelDensity = "sparse"
)

// LandCover classifies the surface at the ignition site.
type LandCover string

const (
	LandCoverForest      LandCover = "forest"
	LandCoverUrban       LandCover = "urban"
	LandCoverResidential LandCover = "residential"
	LandCoverOther       LandCover = "other"
)

// EnvironmentalSample is one complete snapshot of the conditions at a
// geographic point. Samples are immutable once captured and are superseded
// wholesale by the next fetch; the simulator never merges partial updates.
type EnvironmentalSample struct {
	TemperatureC     float64     `json:"temperature_c"`
	WindSpeedMS      float64     `json:"wind_speed_ms"`
	WindDirectionDeg float64     `json:"wind_direction_deg"`
	HumidityPct      float64     `json:"humidity_pct"`
	PrecipitationMM  float64     `json:"precipitation_mm"`
	SlopePct         float64     `json:"slope_pct"`
	Fuel             FuelDensity `json:"fuel"`
	LandCover        LandCover   `json:"land_cover"`
	ObservedAt       time.Time   `json:"observed_at"`
}
