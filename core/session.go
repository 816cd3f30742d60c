package core

import (
	"errors"
	"sync"

	"github.com/emberwatch/firefront-simulator/model"
)

var (
	// ErrAlreadyIgnited indicates an ignition point is already set for the
	// session; it must be cleared before a new one is accepted.
	ErrAlreadyIgnited = errors.New("ignition point already set")
	// ErrNoIgnition indicates an operation that needs an ignition point was
	// attempted before one was set.
	ErrNoIgnition = errors.New("no ignition point set")
	// ErrInvalidIgnition indicates the supplied ignition coordinate is not a
	// usable geographic point.
	ErrInvalidIgnition = errors.New("invalid ignition point")
)

// Session holds the mutable state of one fire simulation: the ignition point
// and the latest environmental conditions. It replaces the ad-hoc process
// globals of earlier prototypes with one explicit, thread-safe owner.
//
// The effective spread rate and the wind parameters are updated atomically
// together, and readers always observe the most recently applied sample. A
// failed environmental fetch simply never calls Apply, so stale-but-valid
// values remain in effect.
type Session struct {
	mu sync.RWMutex

	ignition model.GeoPoint
	ignited  bool

	rate              float64
	windDirectionDeg  float64
	directionalFactor float64

	sample     model.EnvironmentalSample
	haveSample bool
}

// NewSession returns a session with no ignition point and neutral
// conditions: rate 1, no wind, no elongation. The rate is therefore > 0
// before the first environmental fetch completes.
func NewSession() *Session {
	return &Session{
		rate:              BaseSpreadRate,
		directionalFactor: 1.0,
	}
}

// Ignite sets the ignition point. It is set at most once per run; call Clear
// first to move the fire. The zero coordinate is rejected because the session
// uses it as the "unset" marker.
func (s *Session) Ignite(p model.GeoPoint) error {
	if p.IsZero() {
		return ErrInvalidIgnition
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ignited {
		return ErrAlreadyIgnited
	}
	s.ignition = p
	s.ignited = true
	return nil
}

// Ignition returns the ignition point and whether one is set.
func (s *Session) Ignition() (model.GeoPoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ignition, s.ignited
}

// ApplySample replaces the session's environmental conditions wholesale:
// spread rate, wind direction, and directional factor are derived from the
// sample and stored atomically.
func (s *Session) ApplySample(sample model.EnvironmentalSample) {
	rate := SpreadRate(sample)
	factor := DirectionalFactor(sample.WindSpeedMS)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = rate
	s.windDirectionDeg = sample.WindDirectionDeg
	s.directionalFactor = factor
	s.sample = sample
	s.haveSample = true
}

// Conditions returns the current effective spread rate, wind direction in
// degrees, and directional factor as one consistent snapshot.
func (s *Session) Conditions() (rate, windDeg, factor float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate, s.windDirectionDeg, s.directionalFactor
}

// Sample returns the most recently applied environmental sample, if any.
func (s *Session) Sample() (model.EnvironmentalSample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sample, s.haveSample
}

// Clear resets the session to its initial state: no ignition point, neutral
// conditions. Clearing an already-clear session is a no-op, which keeps the
// reset path idempotent.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignition = model.GeoPoint{}
	s.ignited = false
	s.rate = BaseSpreadRate
	s.windDirectionDeg = 0
	s.directionalFactor = 1.0
	s.sample = model.EnvironmentalSample{}
	s.haveSample = false
}
