package core

import (
	"math"

	"github.com/emberwatch/firefront-simulator/model"
)

// BaseSpreadRate is the distance-units-per-step rate before any
// environmental modifier is applied. Units are metres per simulated step.
const BaseSpreadRate = 1.0

// minSpreadRate is the strict positivity floor on the effective rate. The
// temperature modifier reaches zero at 0 degrees C and goes negative below
// it, and a non-positive radial growth rate has no meaning in this model.
const minSpreadRate = 1e-6

// SpreadRate maps an environmental sample to the effective spread rate in
// metres per simulated step. All modifiers are multiplicative over
// BaseSpreadRate:
//
//	wind        exp(0.05 * windSpeed)
//	temperature 1 + (T - 20) * 0.05
//	humidity    1 - humidity/100 * 0.5
//	precip      1 - min(0.5, precip * 0.2)
//	slope       exp(slope/100)
//	fuel        1.2 dense, 1.0 sparse
//	land cover  1.2 forest, 0.8 urban/residential, 1.0 otherwise
//
// The result has no upper bound: high wind on a steep slope can drive it
// arbitrarily high. Downward it is floored at minSpreadRate, so subzero
// temperatures slow the fire to a crawl rather than shrinking it.
func SpreadRate(s model.EnvironmentalSample) float64 {
	wind := math.Exp(0.05 * s.WindSpeedMS)
	temperature := 1 + (s.TemperatureC-20)*0.05
	humidity := 1 - (s.HumidityPct/100)*0.5
	precip := 1 - math.Min(0.5, s.PrecipitationMM*0.2)
	slope := math.Exp(s.SlopePct / 100)

	fuel := 1.0
	if s.Fuel == model.FuelDense {
		fuel = 1.2
	}

	landCover := 1.0
	switch s.LandCover {
	case model.LandCoverForest:
		landCover = 1.2
	case model.LandCoverUrban, model.LandCoverResidential:
		landCover = 0.8
	}

	rate := BaseSpreadRate * wind * temperature * slope * fuel * humidity * precip * landCover
	return math.Max(minSpreadRate, rate)
}

// DirectionalFactor derives the wind-driven elongation factor for the
// fire-front shape. It is independent of the rate formula and always >= 1
// for non-negative wind speeds.
func DirectionalFactor(windSpeedMS float64) float64 {
	return math.Exp(0.1 * windSpeedMS)
}
