package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FireCollector bundles Prometheus metrics for the fire-spread simulator:
// animation ticks, environmental fetches, and session-level gauges.
type FireCollector struct {
	gatherer prometheus.Gatherer

	TicksTotal     prometheus.Counter
	BoundaryPoints prometheus.Histogram

	EnvFetchesTotal  *prometheus.CounterVec
	EnvFetchDuration prometheus.Histogram

	ActiveSessions prometheus.Gauge
	SpreadRate     prometheus.Gauge
}

// NewFireCollector registers the simulator's Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry when nil.
func NewFireCollector(reg prometheus.Registerer) (*FireCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	ticks, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "firesim_ticks_total",
		Help: "Total number of animation ticks rendered across all sessions.",
	}), "firesim_ticks_total")
	if err != nil {
		return nil, err
	}

	points := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "firesim_boundary_points",
		Help:    "Number of boundary points produced per rendered frame (all three scenarios).",
		Buckets: []float64{3, 10, 30, 100, 300, 1000, 1900},
	})
	points, err = registerHistogram(reg, points, "firesim_boundary_points")
	if err != nil {
		return nil, err
	}

	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "firesim_env_fetches_total",
		Help: "Total environmental data fetches, labeled by outcome.",
	}, []string{"outcome"})
	fetches, err = registerCounterVec(reg, fetches, "firesim_env_fetches_total")
	if err != nil {
		return nil, err
	}

	fetchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "firesim_env_fetch_duration_seconds",
		Help:    "Latency of complete environmental fetches (weather + elevation + land cover).",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
	fetchDuration, err = registerHistogram(reg, fetchDuration, "firesim_env_fetch_duration_seconds")
	if err != nil {
		return nil, err
	}

	sessions, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "firesim_active_sessions",
		Help: "Current number of live simulation sessions.",
	}), "firesim_active_sessions")
	if err != nil {
		return nil, err
	}

	rate, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "firesim_spread_rate",
		Help: "Most recently computed effective spread rate, metres per simulated step.",
	}), "firesim_spread_rate")
	if err != nil {
		return nil, err
	}

	return &FireCollector{
		gatherer:         gatherer,
		TicksTotal:       ticks,
		BoundaryPoints:   points,
		EnvFetchesTotal:  fetches,
		EnvFetchDuration: fetchDuration,
		ActiveSessions:   sessions,
		SpreadRate:       rate,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *FireCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// IncTicks satisfies the animator's TickRecorder interface.
func (c *FireCollector) IncTicks() {
	if c == nil || c.TicksTotal == nil {
		return
	}
	c.TicksTotal.Inc()
}

// ObserveBoundaryPoints records the point count of one rendered frame.
func (c *FireCollector) ObserveBoundaryPoints(n int) {
	if c == nil || c.BoundaryPoints == nil {
		return
	}
	c.BoundaryPoints.Observe(float64(n))
}

// ObserveEnvFetch records one environmental fetch attempt with its outcome.
func (c *FireCollector) ObserveEnvFetch(d time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	if c.EnvFetchesTotal != nil {
		c.EnvFetchesTotal.WithLabelValues(outcome).Inc()
	}
	if c.EnvFetchDuration != nil && err == nil {
		c.EnvFetchDuration.Observe(d.Seconds())
	}
}

// SetActiveSessions updates the live session gauge.
func (c *FireCollector) SetActiveSessions(n int) {
	if c == nil || c.ActiveSessions == nil {
		return
	}
	c.ActiveSessions.Set(float64(n))
}

// SetSpreadRate publishes the latest effective spread rate.
func (c *FireCollector) SetSpreadRate(rate float64) {
	if c == nil || c.SpreadRate == nil {
		return
	}
	c.SpreadRate.Set(rate)
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
