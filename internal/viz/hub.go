package viz

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/emberwatch/firefront-simulator/internal/logging"
)

// defaultWriteTimeout bounds a single broadcast write so one stalled client
// cannot hold up the animator's tick loop for every session.
const defaultWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The map client is served from its own origin during development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans simulation frames out to the websocket map clients subscribed to
// each session.
type Hub struct {
	mu           sync.Mutex
	clients      map[string]map[*websocket.Conn]struct{}
	log          logging.Logger
	writeTimeout time.Duration
}

// NewHub constructs an empty hub.
func NewHub(log logging.Logger) *Hub {
	if log == nil {
		log = logging.Noop()
	}
	return &Hub{
		clients:      make(map[string]map[*websocket.Conn]struct{}),
		log:          log,
		writeTimeout: defaultWriteTimeout,
	}
}

// HandleWebSocket upgrades the request and subscribes the connection to the
// given session's frames. It blocks until the client disconnects; incoming
// messages are drained and discarded, since the render path is one-way.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(r.Context(), "websocket upgrade failed", logging.String("error", err.Error()))
		return
	}
	defer conn.Close()

	h.subscribe(sessionID, conn)
	defer h.unsubscribe(sessionID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends a message to every client subscribed to the session.
// Write failures, including a write deadline hit on a client that has
// stopped reading, drop the client.
func (h *Hub) Broadcast(sessionID string, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients[sessionID] {
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.Warn(context.Background(), "dropping websocket client",
				logging.String("session_id", sessionID),
				logging.String("error", err.Error()),
			)
			conn.Close()
			delete(h.clients[sessionID], conn)
		}
	}
}

// SubscriberCount returns the number of clients watching a session.
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sessionID])
}

func (h *Hub) subscribe(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[*websocket.Conn]struct{})
	}
	h.clients[sessionID][conn] = struct{}{}
}

func (h *Hub) unsubscribe(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[sessionID], conn)
	if len(h.clients[sessionID]) == 0 {
		delete(h.clients, sessionID)
	}
}
