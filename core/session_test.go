package core

import (
	"errors"
	"testing"

	"github.com/emberwatch/firefront-simulator/model"
)

func TestSessionIgniteOnce(t *testing.T) {
	s := NewSession()

	p := model.GeoPoint{Lat: 37.42, Lng: -122.08}
	if err := s.Ignite(p); err != nil {
		t.Fatalf("Ignite: %v", err)
	}

	got, ok := s.Ignition()
	if !ok || got != p {
		t.Fatalf("Ignition() = %+v, %v; want %+v, true", got, ok, p)
	}

	if err := s.Ignite(model.GeoPoint{Lat: 1, Lng: 1}); !errors.Is(err, ErrAlreadyIgnited) {
		t.Fatalf("second Ignite error = %v, want ErrAlreadyIgnited", err)
	}
}

func TestSessionIgniteRejectsZeroPoint(t *testing.T) {
	s := NewSession()
	if err := s.Ignite(model.GeoPoint{}); !errors.Is(err, ErrInvalidIgnition) {
		t.Fatalf("Ignite(zero) error = %v, want ErrInvalidIgnition", err)
	}
}

func TestSessionDefaultsBeforeFirstSample(t *testing.T) {
	s := NewSession()

	rate, windDeg, factor := s.Conditions()
	if rate != BaseSpreadRate {
		t.Errorf("initial rate = %v, want %v", rate, BaseSpreadRate)
	}
	if windDeg != 0 || factor != 1.0 {
		t.Errorf("initial wind = (%v, %v), want (0, 1.0)", windDeg, factor)
	}
	if _, ok := s.Sample(); ok {
		t.Errorf("Sample() reported a sample before any was applied")
	}
}

func TestSessionApplySampleUpdatesConditionsAtomically(t *testing.T) {
	s := NewSession()
	sample := model.EnvironmentalSample{
		TemperatureC:     30,
		WindSpeedMS:      8,
		WindDirectionDeg: 270,
		HumidityPct:      20,
		Fuel:             model.FuelDense,
		LandCover:        model.LandCoverForest,
	}
	s.ApplySample(sample)

	rate, windDeg, factor := s.Conditions()
	if rate != SpreadRate(sample) {
		t.Errorf("rate = %v, want %v", rate, SpreadRate(sample))
	}
	if windDeg != 270 {
		t.Errorf("wind direction = %v, want 270", windDeg)
	}
	if factor != DirectionalFactor(8) {
		t.Errorf("directional factor = %v, want %v", factor, DirectionalFactor(8))
	}

	got, ok := s.Sample()
	if !ok || got != sample {
		t.Errorf("Sample() = %+v, %v; want applied sample, true", got, ok)
	}
}

func TestSessionClearIsIdempotent(t *testing.T) {
	s := NewSession()
	if err := s.Ignite(model.GeoPoint{Lat: 2, Lng: 3}); err != nil {
		t.Fatalf("Ignite: %v", err)
	}
	s.ApplySample(model.EnvironmentalSample{TemperatureC: 40, WindSpeedMS: 12})

	s.Clear()
	s.Clear()

	if _, ok := s.Ignition(); ok {
		t.Errorf("ignition survived Clear")
	}
	rate, windDeg, factor := s.Conditions()
	if rate != BaseSpreadRate || windDeg != 0 || factor != 1.0 {
		t.Errorf("conditions after Clear = (%v, %v, %v), want defaults", rate, windDeg, factor)
	}

	// A cleared session accepts a fresh ignition.
	if err := s.Ignite(model.GeoPoint{Lat: 5, Lng: 6}); err != nil {
		t.Errorf("Ignite after Clear: %v", err)
	}
}
