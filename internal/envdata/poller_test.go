package envdata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/emberwatch/firefront-simulator/core"
	"github.com/emberwatch/firefront-simulator/model"
)

// scriptedProvider returns queued results in order, then repeats the last.
type scriptedProvider struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
	active  int
	overlap bool
}

type fetchResult struct {
	sample model.EnvironmentalSample
	err    error
	delay  time.Duration
}

func (s *scriptedProvider) Fetch(ctx context.Context, p model.GeoPoint) (model.EnvironmentalSample, error) {
	s.mu.Lock()
	s.calls++
	s.active++
	if s.active > 1 {
		s.overlap = true
	}
	idx := s.calls - 1
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	res := s.results[idx]
	s.mu.Unlock()

	if res.delay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(res.delay):
		}
	}

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return res.sample, res.err
}

func (s *scriptedProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestPollerAppliesSamples(t *testing.T) {
	session := core.NewSession()
	if err := session.Ignite(model.GeoPoint{Lat: 40, Lng: -3}); err != nil {
		t.Fatalf("Ignite: %v", err)
	}

	sample := model.EnvironmentalSample{TemperatureC: 30, WindSpeedMS: 5, WindDirectionDeg: 90}
	provider := &scriptedProvider{results: []fetchResult{{sample: sample}}}

	p := NewPoller(session, provider, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)
	defer p.Stop()

	waitFor(t, 2*time.Second, func() bool {
		_, ok := session.Sample()
		return ok
	})

	rate, windDeg, _ := session.Conditions()
	if rate != core.SpreadRate(sample) {
		t.Errorf("rate = %v, want %v", rate, core.SpreadRate(sample))
	}
	if windDeg != 90 {
		t.Errorf("wind direction = %v, want 90", windDeg)
	}
}

func TestPollerRetainsConditionsOnFailure(t *testing.T) {
	session := core.NewSession()
	if err := session.Ignite(model.GeoPoint{Lat: 40, Lng: -3}); err != nil {
		t.Fatalf("Ignite: %v", err)
	}

	good := model.EnvironmentalSample{TemperatureC: 25, WindSpeedMS: 3, WindDirectionDeg: 180}
	provider := &scriptedProvider{results: []fetchResult{
		{sample: good},
		{err: errors.New("upstream down")},
	}}

	p := NewPoller(session, provider, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)
	defer p.Stop()

	// Wait until the failing fetch has definitely run at least once.
	waitFor(t, 2*time.Second, func() bool { return provider.callCount() >= 3 })

	rate, windDeg, _ := session.Conditions()
	if rate != core.SpreadRate(good) {
		t.Errorf("rate after failure = %v, want last known-good %v", rate, core.SpreadRate(good))
	}
	if windDeg != 180 {
		t.Errorf("wind after failure = %v, want 180", windDeg)
	}
}

func TestPollerSerializesFetches(t *testing.T) {
	session := core.NewSession()
	if err := session.Ignite(model.GeoPoint{Lat: 40, Lng: -3}); err != nil {
		t.Fatalf("Ignite: %v", err)
	}

	// Each fetch takes several polling intervals; serialization means the
	// provider must never observe overlapping calls.
	provider := &scriptedProvider{results: []fetchResult{
		{sample: model.EnvironmentalSample{TemperatureC: 20}, delay: 10 * time.Millisecond},
	}}

	p := NewPoller(session, provider, time.Millisecond, WithFetchTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	waitFor(t, 2*time.Second, func() bool { return provider.callCount() >= 3 })
	p.Stop()

	provider.mu.Lock()
	overlap := provider.overlap
	provider.mu.Unlock()
	if overlap {
		t.Fatalf("poller issued overlapping fetches")
	}
}

func TestPollerSkipsWithoutIgnition(t *testing.T) {
	session := core.NewSession()
	provider := &scriptedProvider{results: []fetchResult{{sample: model.EnvironmentalSample{}}}}

	p := NewPoller(session, provider, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	time.Sleep(20 * time.Millisecond)
	p.Stop()

	if got := provider.callCount(); got != 0 {
		t.Fatalf("poller fetched %d times without an ignition point, want 0", got)
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	session := core.NewSession()
	provider := &scriptedProvider{results: []fetchResult{{sample: model.EnvironmentalSample{}}}}
	p := NewPoller(session, provider, time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Run(context.Background())
		close(done)
	}()

	p.Stop()
	p.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Stop")
	}
}
