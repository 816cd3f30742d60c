package envdata

import (
	"context"
	"sync"
	"time"

	"github.com/emberwatch/firefront-simulator/core"
	"github.com/emberwatch/firefront-simulator/internal/logging"
	"github.com/emberwatch/firefront-simulator/model"
)

// FetchRecorder receives fetch metrics. Implemented by the observability
// collector; nil drops everything.
type FetchRecorder interface {
	ObserveEnvFetch(d time.Duration, err error)
	SetSpreadRate(rate float64)
}

// Poller periodically refreshes a session's environmental conditions while an
// animation is running.
//
// Fetches are strictly serialized: each one runs to completion (or times out)
// before the next is scheduled, so the sample applied to the session is
// always from the most recently started fetch. This deliberately replaces the
// fire-and-forget polling of earlier prototypes, where a slow early response
// could overwrite a fresher one.
//
// A failed fetch leaves the session untouched; the last known-good rate and
// wind parameters stay in effect and the animation is never blocked.
type Poller struct {
	session  *core.Session
	provider Provider
	interval time.Duration
	timeout  time.Duration
	log      logging.Logger
	metrics  FetchRecorder

	stop     chan struct{}
	stopOnce sync.Once
}

// PollerOption customises a Poller.
type PollerOption func(*Poller)

// WithPollerLogger attaches a structured logger.
func WithPollerLogger(log logging.Logger) PollerOption {
	return func(p *Poller) { p.log = log }
}

// WithFetchRecorder attaches a metrics recorder.
func WithFetchRecorder(rec FetchRecorder) PollerOption {
	return func(p *Poller) { p.metrics = rec }
}

// WithFetchTimeout bounds each individual fetch. Defaults to the polling
// interval, so a hung fetch can never delay the next cycle by more than one
// period.
func WithFetchTimeout(d time.Duration) PollerOption {
	return func(p *Poller) { p.timeout = d }
}

// NewPoller constructs a poller for the given session and provider.
func NewPoller(session *core.Session, provider Provider, interval time.Duration, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	p := &Poller{
		session:  session,
		provider: provider,
		interval: interval,
		log:      logging.Noop(),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.timeout <= 0 {
		p.timeout = interval
	}
	return p
}

// Run polls until the context is cancelled or Stop is called. It fetches only
// while an ignition point is set, and reschedules itself after each unit of
// work rather than on a fixed-rate timer; drift under load is acceptable.
func (p *Poller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		default:
		}

		if ignition, ok := p.session.Ignition(); ok {
			p.refresh(ctx, ignition)
		}

		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-time.After(p.interval):
		}
	}
}

// Stop terminates the poll loop. Safe to call more than once and from any
// goroutine.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

func (p *Poller) refresh(ctx context.Context, ignition model.GeoPoint) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	sample, err := p.provider.Fetch(fetchCtx, ignition)
	elapsed := time.Since(start)

	if p.metrics != nil {
		p.metrics.ObserveEnvFetch(elapsed, err)
	}

	if err != nil {
		p.log.Warn(ctx, "environmental fetch failed; keeping last known conditions",
			logging.String("error", err.Error()),
		)
		return
	}

	p.session.ApplySample(sample)
	rate, windDeg, factor := p.session.Conditions()
	if p.metrics != nil {
		p.metrics.SetSpreadRate(rate)
	}
	p.log.Debug(ctx, "environmental conditions refreshed",
		logging.Float64("spread_rate", rate),
		logging.Float64("wind_direction_deg", windDeg),
		logging.Float64("directional_factor", factor),
	)
}
