package viz

import (
	"context"
	"encoding/json"

	"github.com/emberwatch/firefront-simulator/internal/logging"
	"github.com/emberwatch/firefront-simulator/model"
	"github.com/emberwatch/firefront-simulator/timectrl"
)

// FrameMessage is the wire form of one rendered frame, pushed to map
// clients over the websocket.
type FrameMessage struct {
	Type      string            `json:"type"` // "frame"
	SessionID string            `json:"session_id"`
	Index     int               `json:"index"`
	StepCount int               `json:"step_count"`
	Ignition  model.GeoPoint    `json:"ignition"`
	Marker    model.ScreenPoint `json:"marker"`
	Fronts    []FrontMessage    `json:"fronts"`
}

// FrontMessage is one scenario polygon plus its visual style. Points are
// screen-unit offsets relative to the marker; the client closes the ring.
type FrontMessage struct {
	Scenario     model.Scenario      `json:"scenario"`
	Color        string              `json:"color"`
	Opacity      float64             `json:"opacity"`
	RadiusMeters float64             `json:"radius_meters"`
	Points       []model.ScreenPoint `json:"points"`
}

// ClearMessage tells clients to remove all geometry for a session.
type ClearMessage struct {
	Type      string `json:"type"` // "clear"
	SessionID string `json:"session_id"`
}

// WebSocketPresenter adapts the hub to the animator's Presenter interface
// for one session, attaching scenario styles to each front.
type WebSocketPresenter struct {
	hub       *Hub
	sessionID string
	styles    StyleSet
	log       logging.Logger
}

// NewWebSocketPresenter builds a presenter publishing to the given session's
// subscribers.
func NewWebSocketPresenter(hub *Hub, sessionID string, styles StyleSet, log logging.Logger) *WebSocketPresenter {
	if log == nil {
		log = logging.Noop()
	}
	return &WebSocketPresenter{
		hub:       hub,
		sessionID: sessionID,
		styles:    styles,
		log:       log,
	}
}

// Present implements timectrl.Presenter.
func (p *WebSocketPresenter) Present(frame timectrl.Frame) {
	msg := FrameMessage{
		Type:      "frame",
		SessionID: p.sessionID,
		Index:     frame.Index,
		StepCount: frame.StepCount,
		Ignition:  frame.Ignition,
		Marker:    frame.Marker,
		Fronts:    make([]FrontMessage, 0, len(frame.Fronts)),
	}
	for _, front := range frame.Fronts {
		style := p.styles.For(front.Scenario)
		msg.Fronts = append(msg.Fronts, FrontMessage{
			Scenario:     front.Scenario,
			Color:        style.Color,
			Opacity:      style.Opacity,
			RadiusMeters: front.RadiusMeters,
			Points:       front.Points,
		})
	}

	p.send(msg)
}

// Clear implements timectrl.Presenter.
func (p *WebSocketPresenter) Clear() {
	p.send(ClearMessage{Type: "clear", SessionID: p.sessionID})
}

func (p *WebSocketPresenter) send(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		p.log.Error(context.Background(), "failed to marshal frame message",
			logging.String("session_id", p.sessionID),
			logging.String("error", err.Error()),
		)
		return
	}
	p.hub.Broadcast(p.sessionID, data)
}
