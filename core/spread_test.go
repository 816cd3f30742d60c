package core

import (
	"math"
	"testing"

	"github.com/emberwatch/firefront-simulator/model"
)

func TestSpreadRateNeutralSampleIsUnity(t *testing.T) {
	// Every modifier evaluates to 1.0 for this sample.
	sample := model.EnvironmentalSample{
		TemperatureC:    20,
		WindSpeedMS:     0,
		HumidityPct:     0,
		PrecipitationMM: 0,
		SlopePct:        0,
		Fuel:            model.FuelSparse,
		LandCover:       model.LandCoverOther,
	}

	if got := SpreadRate(sample); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("SpreadRate(neutral) = %v, want 1.0", got)
	}
}

func TestSpreadRatePositivity(t *testing.T) {
	samples := []model.EnvironmentalSample{
		{TemperatureC: 35, WindSpeedMS: 20, HumidityPct: 10, SlopePct: 40, Fuel: model.FuelDense, LandCover: model.LandCoverForest},
		{TemperatureC: 5, WindSpeedMS: 0, HumidityPct: 95, PrecipitationMM: 10, Fuel: model.FuelSparse, LandCover: model.LandCoverUrban},
		{TemperatureC: 20, WindSpeedMS: 3, HumidityPct: 50, PrecipitationMM: 1, SlopePct: 10, Fuel: model.FuelSparse, LandCover: model.LandCoverResidential},
		{TemperatureC: -10, WindSpeedMS: 1, HumidityPct: 99, PrecipitationMM: 100, SlopePct: 0},
	}

	for i, s := range samples {
		if got := SpreadRate(s); got <= 0 {
			t.Errorf("sample %d: SpreadRate = %v, want > 0", i, got)
		}
	}
}

func TestSpreadRateFreezingTemperaturesFloor(t *testing.T) {
	// The temperature modifier alone is 0 at 0 C and -0.5 at -10 C; the
	// effective rate must still come out strictly positive.
	freezing := model.EnvironmentalSample{TemperatureC: 0}
	if got := SpreadRate(freezing); got != minSpreadRate {
		t.Fatalf("SpreadRate at 0 C = %v, want floor %v", got, minSpreadRate)
	}

	subzero := model.EnvironmentalSample{TemperatureC: -10, WindSpeedMS: 1, HumidityPct: 99, PrecipitationMM: 100}
	if got := SpreadRate(subzero); got != minSpreadRate {
		t.Fatalf("SpreadRate at -10 C = %v, want floor %v", got, minSpreadRate)
	}

	// Just above freezing the raw product is already positive and must not
	// be replaced by the floor.
	mild := model.EnvironmentalSample{TemperatureC: 5}
	if got := SpreadRate(mild); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("SpreadRate at 5 C = %v, want 0.25", got)
	}
}

func TestSpreadRateModifierDirections(t *testing.T) {
	base := model.EnvironmentalSample{
		TemperatureC: 20,
		Fuel:         model.FuelSparse,
		LandCover:    model.LandCoverOther,
	}
	baseRate := SpreadRate(base)

	windy := base
	windy.WindSpeedMS = 10
	if SpreadRate(windy) <= baseRate {
		t.Errorf("wind should increase the rate")
	}

	humid := base
	humid.HumidityPct = 80
	if SpreadRate(humid) >= baseRate {
		t.Errorf("humidity should decrease the rate")
	}

	raining := base
	raining.PrecipitationMM = 5
	got := SpreadRate(raining)
	// Precip modifier saturates at 0.5.
	if math.Abs(got-baseRate*0.5) > 1e-12 {
		t.Errorf("heavy precip rate = %v, want %v", got, baseRate*0.5)
	}

	forest := base
	forest.LandCover = model.LandCoverForest
	if math.Abs(SpreadRate(forest)-baseRate*1.2) > 1e-12 {
		t.Errorf("forest land cover should multiply the rate by 1.2")
	}

	urban := base
	urban.LandCover = model.LandCoverUrban
	if math.Abs(SpreadRate(urban)-baseRate*0.8) > 1e-12 {
		t.Errorf("urban land cover should multiply the rate by 0.8")
	}

	dense := base
	dense.Fuel = model.FuelDense
	if math.Abs(SpreadRate(dense)-baseRate*1.2) > 1e-12 {
		t.Errorf("dense fuel should multiply the rate by 1.2")
	}
}

func TestDirectionalFactor(t *testing.T) {
	if got := DirectionalFactor(0); got != 1.0 {
		t.Fatalf("DirectionalFactor(0) = %v, want 1.0", got)
	}
	if got := DirectionalFactor(10); math.Abs(got-math.E) > 1e-12 {
		t.Fatalf("DirectionalFactor(10) = %v, want e", got)
	}
	if DirectionalFactor(5) < 1 {
		t.Fatalf("DirectionalFactor must be >= 1 for non-negative wind")
	}
}
