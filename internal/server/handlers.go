package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/emberwatch/firefront-simulator/core"
	"github.com/emberwatch/firefront-simulator/internal/logging"
	"github.com/emberwatch/firefront-simulator/model"
	"github.com/emberwatch/firefront-simulator/timectrl"
)

// API exposes the simulator over HTTP: session lifecycle, animation control,
// and the websocket frame stream.
type API struct {
	manager *Manager
	log     logging.Logger
}

// NewAPI constructs the HTTP API around a session manager.
func NewAPI(manager *Manager, log logging.Logger) *API {
	if log == nil {
		log = logging.Noop()
	}
	return &API{manager: manager, log: log}
}

// Routes registers all API routes on a fresh router.
func (a *API) Routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", a.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sessions", a.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", a.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", a.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/ignite", a.handleIgnite).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/start", a.handleStart).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/scrub", a.handleScrub).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", a.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/ws", a.handleWebSocket).Methods(http.MethodGet)

	return r
}

type sessionSnapshot struct {
	ID            string          `json:"id"`
	State         string          `json:"state"`
	Index         int             `json:"index"`
	StepCount     int             `json:"step_count"`
	Ignition      *model.GeoPoint `json:"ignition,omitempty"`
	SpreadRate    float64         `json:"spread_rate"`
	WindDirection float64         `json:"wind_direction_deg"`
}

type igniteRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type startRequest struct {
	DurationMS int64 `json:"duration_ms"`
}

type scrubRequest struct {
	Index int `json:"index"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sim := a.manager.Create()
	writeJSON(w, http.StatusCreated, snapshotOf(sim))
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sim, _ := a.session(w, r)
	if sim == nil {
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sim))
}

func (a *API) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	a.manager.Delete(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleIgnite(w http.ResponseWriter, r *http.Request) {
	sim, _ := a.session(w, r)
	if sim == nil {
		return
	}

	var req igniteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := sim.Session.Ignite(model.GeoPoint{Lat: req.Lat, Lng: req.Lng}); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sim))
}

func (a *API) handleStart(w http.ResponseWriter, r *http.Request) {
	sim, _ := a.session(w, r)
	if sim == nil {
		return
	}

	var req startRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DurationMS <= 0 {
		writeError(w, http.StatusBadRequest, "duration_ms must be positive")
		return
	}

	if err := sim.StartRun(time.Duration(req.DurationMS) * time.Millisecond); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, snapshotOf(sim))
}

func (a *API) handleScrub(w http.ResponseWriter, r *http.Request) {
	sim, _ := a.session(w, r)
	if sim == nil {
		return
	}

	var req scrubRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := sim.Animator.Scrub(req.Index); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(sim))
}

func (a *API) handleReset(w http.ResponseWriter, r *http.Request) {
	sim, _ := a.session(w, r)
	if sim == nil {
		return
	}
	sim.Reset()
	writeJSON(w, http.StatusOK, snapshotOf(sim))
}

func (a *API) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sim, _ := a.session(w, r)
	if sim == nil {
		return
	}
	a.manager.hub.HandleWebSocket(w, r, sim.ID)
}

// session resolves the {id} path variable, writing a 404 when unknown.
func (a *API) session(w http.ResponseWriter, r *http.Request) (*SimSession, error) {
	id := mux.Vars(r)["id"]
	sim, err := a.manager.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, err
	}
	return sim, nil
}

func snapshotOf(sim *SimSession) sessionSnapshot {
	snap := sessionSnapshot{
		ID:        sim.ID,
		State:     sim.Animator.State().String(),
		Index:     sim.Animator.Index(),
		StepCount: sim.Animator.StepCount(),
	}
	if ignition, ok := sim.Session.Ignition(); ok {
		snap.Ignition = &ignition
	}
	rate, windDeg, _ := sim.Session.Conditions()
	snap.SpreadRate = rate
	snap.WindDirection = windDeg
	return snap
}

// writeDomainError maps core and animator errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNoIgnition):
		writeError(w, http.StatusConflict, "no ignition point set; ignite before starting")
	case errors.Is(err, core.ErrAlreadyIgnited):
		writeError(w, http.StatusConflict, "ignition point already set; reset first")
	case errors.Is(err, core.ErrInvalidIgnition):
		writeError(w, http.StatusBadRequest, "invalid ignition coordinates")
	case errors.Is(err, timectrl.ErrNotIdle):
		writeError(w, http.StatusConflict, "animation already started; reset first")
	case errors.Is(err, timectrl.ErrIndexOutOfRange):
		writeError(w, http.StatusBadRequest, "time index out of range")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
