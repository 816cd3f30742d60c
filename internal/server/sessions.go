package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emberwatch/firefront-simulator/core"
	"github.com/emberwatch/firefront-simulator/internal/envdata"
	"github.com/emberwatch/firefront-simulator/internal/logging"
	"github.com/emberwatch/firefront-simulator/internal/observability"
	"github.com/emberwatch/firefront-simulator/internal/viz"
	"github.com/emberwatch/firefront-simulator/timectrl"
)

// ErrSessionNotFound indicates an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

// SimSession bundles everything owned by one simulation run: the session
// state, its animator, and the environmental poller that feeds it.
type SimSession struct {
	ID       string
	Session  *core.Session
	Animator *timectrl.Animator

	provider envdata.Provider
	pollCfg  EnvironmentConfig
	log      logging.Logger
	metrics  *observability.FireCollector

	mu         sync.Mutex
	poller     *envdata.Poller
	cancelPoll context.CancelFunc
}

// StartRun starts the animation over the given real-world duration and spins
// up the environmental poll loop for its lifetime. The poller stops itself
// when the run completes or is reset.
func (s *SimSession) StartRun(totalReal time.Duration) error {
	done, err := s.Animator.Start(totalReal)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	ctx = logging.ContextWithSessionID(ctx, s.ID)
	poller := envdata.NewPoller(s.Session, s.provider, s.pollCfg.PollInterval(),
		envdata.WithPollerLogger(logging.WithSessionLogger(ctx, s.log)),
		envdata.WithFetchRecorder(s.metrics),
		envdata.WithFetchTimeout(time.Duration(s.pollCfg.FetchTimeoutMS)*time.Millisecond),
	)
	s.poller = poller
	s.cancelPoll = cancel

	go poller.Run(ctx)
	go func() {
		<-done
		poller.Stop()
		cancel()
	}()
	return nil
}

// Reset stops any polling, resets the animator, and clears all state. Safe
// to call repeatedly.
func (s *SimSession) Reset() {
	s.mu.Lock()
	if s.poller != nil {
		s.poller.Stop()
		s.poller = nil
	}
	if s.cancelPoll != nil {
		s.cancelPoll()
		s.cancelPoll = nil
	}
	s.mu.Unlock()

	s.Animator.Reset()
}

// Manager owns the live simulation sessions.
type Manager struct {
	cfg      Config
	hub      *viz.Hub
	provider envdata.Provider
	log      logging.Logger
	metrics  *observability.FireCollector

	mu       sync.RWMutex
	sessions map[string]*SimSession
}

// NewManager constructs a session manager. The provider is shared by all
// sessions; it is stateless per fetch.
func NewManager(cfg Config, hub *viz.Hub, provider envdata.Provider, log logging.Logger, metrics *observability.FireCollector) *Manager {
	if log == nil {
		log = logging.Noop()
	}
	return &Manager{
		cfg:      cfg,
		hub:      hub,
		provider: provider,
		log:      log,
		metrics:  metrics,
		sessions: make(map[string]*SimSession),
	}
}

// Create builds a new session with a fresh ID and wires its animator to the
// websocket hub.
func (m *Manager) Create() *SimSession {
	id := uuid.NewString()

	session := core.NewSession()
	presenter := viz.NewWebSocketPresenter(m.hub, id, m.cfg.Styles, m.log)
	animator := timectrl.NewAnimator(
		session,
		core.NewWebMercatorProjector(m.cfg.Simulation.ProjectionZoom),
		presenter,
		timectrl.Config{
			StepCount:   m.cfg.Simulation.StepCount(),
			MinSpacing:  m.cfg.Simulation.MinSpacingPx,
			AngularStep: m.cfg.Simulation.AngularStepRad,
			Multipliers: m.cfg.Simulation.Multipliers,
		},
		timectrl.WithLogger(m.log.With(logging.String("session_id", id))),
		timectrl.WithTickRecorder(m.metrics),
	)

	sim := &SimSession{
		ID:       id,
		Session:  session,
		Animator: animator,
		provider: m.provider,
		pollCfg:  m.cfg.Environment,
		log:      m.log,
		metrics:  m.metrics,
	}

	m.mu.Lock()
	m.sessions[id] = sim
	count := len(m.sessions)
	m.mu.Unlock()

	m.metrics.SetActiveSessions(count)
	m.log.Info(context.Background(), "session created", logging.String("session_id", id))
	return sim
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*SimSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sim, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sim, nil
}

// Delete resets and removes a session. Deleting an unknown ID is a no-op.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	sim, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if ok {
		sim.Reset()
		m.metrics.SetActiveSessions(count)
		m.log.Info(context.Background(), "session deleted", logging.String("session_id", id))
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
