package viz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/emberwatch/firefront-simulator/model"
	"github.com/emberwatch/firefront-simulator/timectrl"
)

func dialTestHub(t *testing.T, hub *Hub, sessionID string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleWebSocket(w, r, sessionID)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Wait for the subscription to register before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount(sessionID) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never subscribed")
		}
		time.Sleep(time.Millisecond)
	}
	return conn
}

func TestHubBroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub(nil)
	conn := dialTestHub(t, hub, "session-1")

	hub.Broadcast("session-1", []byte(`{"hello":"world"}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if string(message) != `{"hello":"world"}` {
		t.Fatalf("received %q, want broadcast payload", message)
	}
}

func TestHubBroadcastIsSessionScoped(t *testing.T) {
	hub := NewHub(nil)
	conn := dialTestHub(t, hub, "session-a")

	hub.Broadcast("session-b", []byte("not for you"))
	hub.Broadcast("session-a", []byte("for you"))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if string(message) != "for you" {
		t.Fatalf("received %q, want only the session-a payload", message)
	}
}

func TestHubBroadcastDropsStalledClient(t *testing.T) {
	hub := NewHub(nil)
	hub.writeTimeout = 50 * time.Millisecond
	dialTestHub(t, hub, "session-1")

	// The client never reads, so large payloads fill the kernel buffers and
	// the write deadline fails the blocked write instead of stalling the
	// broadcaster forever.
	payload := make([]byte, 1<<20)
	for i := 0; i < 64 && hub.SubscriberCount("session-1") > 0; i++ {
		hub.Broadcast("session-1", payload)
	}

	if got := hub.SubscriberCount("session-1"); got != 0 {
		t.Fatalf("stalled client still subscribed, count = %d", got)
	}
}

func TestWebSocketPresenterPublishesStyledFrames(t *testing.T) {
	hub := NewHub(nil)
	conn := dialTestHub(t, hub, "s1")

	presenter := NewWebSocketPresenter(hub, "s1", DefaultStyles(), nil)
	presenter.Present(timectrl.Frame{
		Index:     4,
		StepCount: 30,
		Ignition:  model.GeoPoint{Lat: 40, Lng: -3},
		Marker:    model.ScreenPoint{X: 512, Y: 384},
		Fronts: []timectrl.ScenarioFront{
			{Scenario: model.ScenarioBest, RadiusMeters: 8, Points: []model.ScreenPoint{{X: 1, Y: 0}}},
			{Scenario: model.ScenarioNeutral, RadiusMeters: 10, Points: []model.ScreenPoint{{X: 2, Y: 0}}},
			{Scenario: model.ScenarioWorst, RadiusMeters: 12, Points: []model.ScreenPoint{{X: 3, Y: 0}}},
		},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}

	var msg FrameMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if msg.Type != "frame" || msg.SessionID != "s1" || msg.Index != 4 {
		t.Fatalf("frame header = %+v, want type=frame session=s1 index=4", msg)
	}
	if len(msg.Fronts) != 3 {
		t.Fatalf("frame has %d fronts, want 3", len(msg.Fronts))
	}
	if msg.Fronts[2].Color != DefaultStyles().Worst.Color {
		t.Fatalf("worst front color = %s, want %s", msg.Fronts[2].Color, DefaultStyles().Worst.Color)
	}

	presenter.Clear()
	_, raw, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("read clear: %v", err)
	}
	var clear ClearMessage
	if err := json.Unmarshal(raw, &clear); err != nil {
		t.Fatalf("unmarshal clear: %v", err)
	}
	if clear.Type != "clear" || clear.SessionID != "s1" {
		t.Fatalf("clear message = %+v", clear)
	}
}
