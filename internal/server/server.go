package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/emberwatch/firefront-simulator/internal/envdata"
	"github.com/emberwatch/firefront-simulator/internal/logging"
	"github.com/emberwatch/firefront-simulator/internal/observability"
	"github.com/emberwatch/firefront-simulator/internal/viz"
)

// Server ties the session manager, websocket hub, and HTTP API together and
// runs them until the context is cancelled.
type Server struct {
	cfg     Config
	log     logging.Logger
	metrics *observability.FireCollector
	manager *Manager
	api     *API
}

// New builds a fully wired server. A nil provider defaults to the live HTTP
// environmental services named in the configuration.
func New(cfg Config, provider envdata.Provider, log logging.Logger) (*Server, error) {
	if log == nil {
		log = logging.Noop()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		provider = envdata.NewComposite(cfg.Environment.ProviderConfig())
	}

	metrics, err := observability.NewFireCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	hub := viz.NewHub(log)
	manager := NewManager(cfg, hub, provider, log, metrics)

	return &Server{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		manager: manager,
		api:     NewAPI(manager, log),
	}, nil
}

// Manager exposes the session manager, mainly for tests.
func (s *Server) Manager() *Manager { return s.manager }

// Handler returns the API router.
func (s *Server) Handler() http.Handler { return s.api.Routes() }

// Run serves the API and the metrics endpoint until ctx is cancelled, then
// shuts both down gracefully.
func (s *Server) Run(ctx context.Context) error {
	apiSrv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsSrv := &http.Server{
		Addr:              s.cfg.MetricsAddr,
		Handler:           s.metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		s.log.Info(ctx, "api server listening", logging.String("addr", s.cfg.ListenAddr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()
	go func() {
		s.log.Info(ctx, "metrics server listening", logging.String("addr", s.cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var shutdownErr error
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}
	return shutdownErr
}

func (s *Server) metricsMux() http.Handler {
	mx := http.NewServeMux()
	mx.Handle("/metrics", s.metrics.Handler())
	return mx
}
