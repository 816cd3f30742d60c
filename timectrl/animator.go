package timectrl

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/emberwatch/firefront-simulator/core"
	"github.com/emberwatch/firefront-simulator/internal/logging"
	"github.com/emberwatch/firefront-simulator/model"
)

var (
	// ErrNotIdle indicates Start was called while a run is already in
	// progress or has completed without a reset.
	ErrNotIdle = errors.New("animator is not idle")
	// ErrIndexOutOfRange indicates a scrub target outside [0, StepCount].
	ErrIndexOutOfRange = errors.New("time index out of range")
)

// State is the animator's lifecycle state.
type State int

const (
	// Idle means no run is in progress; Start is valid.
	Idle State = iota
	// Running means ticks are being scheduled.
	Running
	// Complete means the run reached the final time index; only Reset
	// leaves this state.
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// ScenarioFront is one scenario's fire-front at one time index.
type ScenarioFront struct {
	Scenario     model.Scenario      `json:"scenario"`
	RadiusMeters float64             `json:"radius_meters"`
	Points       []model.ScreenPoint `json:"points"`
}

// Frame is everything the renderer needs for one time index: the ignition
// marker and the three scenario polygons, ordered best, neutral, worst.
// Polygon points are offsets relative to the marker position.
type Frame struct {
	Index     int               `json:"index"`
	StepCount int               `json:"step_count"`
	Ignition  model.GeoPoint    `json:"ignition"`
	Marker    model.ScreenPoint `json:"marker"`
	Fronts    []ScenarioFront   `json:"fronts"`
}

// Presenter receives recomputed frames. The core produces geometry only;
// everything visual lives behind this interface.
type Presenter interface {
	// Present renders one frame, replacing whatever was shown before.
	Present(frame Frame)
	// Clear removes all rendered geometry, including the ignition marker.
	Clear()
}

// TickRecorder receives animation metrics. Implemented by the observability
// collector; a nil recorder is valid and drops everything.
type TickRecorder interface {
	IncTicks()
	ObserveBoundaryPoints(n int)
}

// Config carries the tunables of one animation run.
type Config struct {
	// StepCount is the final time index; the clock runs over [0, StepCount].
	StepCount int
	// MinSpacing is the boundary point spacing floor in screen units.
	MinSpacing float64
	// AngularStep is the polar sweep increment in radians.
	AngularStep float64
	// Multipliers is the per-scenario rate multiplier triple.
	Multipliers core.Multipliers
}

func (c Config) withDefaults() Config {
	if c.StepCount <= 0 {
		c.StepCount = 30
	}
	if c.MinSpacing <= 0 {
		c.MinSpacing = core.DefaultMinSpacing
	}
	if c.AngularStep <= 0 {
		c.AngularStep = core.DefaultAngularStep
	}
	if c.Multipliers == (core.Multipliers{}) {
		c.Multipliers = core.DefaultMultipliers()
	}
	return c
}

// Animator drives the simulation clock over discrete time indices,
// recomputing and presenting all three scenario fronts at each tick.
//
// Ticks are strictly sequential and execute in increasing index order with no
// skips: each tick's work runs to completion before the next is scheduled,
// and the configured delay is a floor rather than a deadline. The
// environmental rate is re-read from the session on every tick, so a mid-run
// refresh shows up in the next frame.
type Animator struct {
	session   *core.Session
	projector core.Projector
	presenter Presenter
	cfg       Config
	log       logging.Logger
	metrics   TickRecorder

	mu    sync.Mutex
	state State
	index int
	// stop is the liveness guard for the current run. It is re-checked at
	// the top of every unit of work, so a reset prevents any
	// already-scheduled tick from acting.
	stop chan struct{}
}

// Option customises an Animator.
type Option func(*Animator)

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option {
	return func(a *Animator) { a.log = log }
}

// WithTickRecorder attaches a metrics recorder.
func WithTickRecorder(rec TickRecorder) Option {
	return func(a *Animator) { a.metrics = rec }
}

// NewAnimator constructs an animator in the Idle state.
func NewAnimator(session *core.Session, projector core.Projector, presenter Presenter, cfg Config, opts ...Option) *Animator {
	a := &Animator{
		session:   session,
		projector: projector,
		presenter: presenter,
		cfg:       cfg.withDefaults(),
		log:       logging.Noop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current lifecycle state.
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Index returns the current time index of the running clock.
func (a *Animator) Index() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index
}

// StepCount returns the configured final time index.
func (a *Animator) StepCount() int {
	return a.cfg.StepCount
}

// Start begins a run spread over the given total real-world duration. It is
// valid only from Idle and only once an ignition point exists; both checks
// fail synchronously with no state change. The returned channel closes when
// the run finishes or is reset.
func (a *Animator) Start(totalReal time.Duration) (<-chan struct{}, error) {
	if _, ok := a.session.Ignition(); !ok {
		return nil, core.ErrNoIgnition
	}

	a.mu.Lock()
	if a.state != Idle {
		a.mu.Unlock()
		return nil, ErrNotIdle
	}

	delay := time.Duration(0)
	if totalReal > 0 {
		delay = totalReal / time.Duration(a.cfg.StepCount)
	}

	a.state = Running
	a.index = 0
	a.stop = make(chan struct{})
	stop := a.stop
	a.mu.Unlock()

	done := make(chan struct{})
	go a.run(stop, done, delay)

	a.log.Info(context.Background(), "animation started",
		logging.Int("step_count", a.cfg.StepCount),
		logging.String("tick_delay", delay.String()),
	)
	return done, nil
}

func (a *Animator) run(stop, done chan struct{}, delay time.Duration) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		a.mu.Lock()
		if a.state != Running {
			a.mu.Unlock()
			return
		}
		index := a.index
		a.mu.Unlock()

		if !a.renderIndex(index) {
			// Ignition disappeared under a concurrent reset.
			return
		}

		a.mu.Lock()
		if index >= a.cfg.StepCount {
			a.state = Complete
			a.mu.Unlock()
			a.log.Info(context.Background(), "animation complete", logging.Int("index", index))
			return
		}
		a.index = index + 1
		a.mu.Unlock()

		select {
		case <-stop:
			return
		case <-time.After(delay):
		}
	}
}

// Scrub recomputes and presents the frame for an arbitrary in-range index.
// It is a pure read/render path: it neither advances nor disturbs the
// running clock or the Idle/Running/Complete machine, and it requires no
// replay of intermediate steps.
func (a *Animator) Scrub(index int) error {
	if index < 0 || index > a.cfg.StepCount {
		return ErrIndexOutOfRange
	}
	if _, ok := a.session.Ignition(); !ok {
		return core.ErrNoIgnition
	}
	if !a.renderIndex(index) {
		return core.ErrNoIgnition
	}
	return nil
}

// Reset returns the animator to Idle from any state, clears the session's
// ignition point, and removes all rendered geometry. It is idempotent, and
// any already-scheduled tick observes the closed stop channel before acting.
func (a *Animator) Reset() {
	a.mu.Lock()
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
	}
	a.state = Idle
	a.index = 0
	a.mu.Unlock()

	a.session.Clear()
	if a.presenter != nil {
		a.presenter.Clear()
	}
}

// renderIndex recomputes the three scenario fronts for one index and hands
// the frame to the presenter. It reports false when no ignition point is set.
func (a *Animator) renderIndex(index int) bool {
	ignition, ok := a.session.Ignition()
	if !ok {
		return false
	}
	rate, windDeg, factor := a.session.Conditions()

	marker := model.ScreenPoint{}
	if a.projector != nil {
		marker = a.projector.Project(ignition)
	}

	fronts := make([]ScenarioFront, 0, 3)
	totalPoints := 0
	for _, s := range model.Scenarios() {
		radiusM := core.ScenarioRadius(a.cfg.Multipliers, s, index, rate)
		screenR := core.ScreenDistance(radiusM, ignition, a.projector)
		points := core.BoundaryWithStep(screenR, windDeg, factor, a.cfg.MinSpacing, a.cfg.AngularStep)
		totalPoints += len(points)
		fronts = append(fronts, ScenarioFront{
			Scenario:     s,
			RadiusMeters: radiusM,
			Points:       points,
		})
	}

	if a.presenter != nil {
		a.presenter.Present(Frame{
			Index:     index,
			StepCount: a.cfg.StepCount,
			Ignition:  ignition,
			Marker:    marker,
			Fronts:    fronts,
		})
	}
	if a.metrics != nil {
		a.metrics.IncTicks()
		a.metrics.ObserveBoundaryPoints(totalPoints)
	}
	return true
}
