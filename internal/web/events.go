package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rook-computer/tahoeglow/internal/state"
)

const (
	eventWriteWait  = 5 * time.Second
	eventPongWait   = 60 * time.Second
	eventPingPeriod = eventPongWait * 9 / 10
)

// eventFields is every field a client can see change; cursor motion is
// too frequent to stream.
const eventFields = state.FieldsAll &^ state.FieldCursor

// eventsHandler streams the light state over a websocket: once on connect
// and again after every visible change.
type eventsHandler struct {
	light    *state.Store
	logger   Logger
	upgrader websocket.Upgrader
}

func newEventsHandler(cfg APIV1Config) *eventsHandler {
	h := &eventsHandler{light: cfg.Light, logger: cfg.Logger}
	if cfg.DevMode {
		h.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	return h
}

func (h *eventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return
	}
	defer conn.Close()

	sub := h.light.Subscribe(eventFields)
	defer sub.Close()

	closed := make(chan struct{})
	go h.readUntilClosed(conn, closed)

	if err := h.send(conn); err != nil {
		return
	}
	ping := time.NewTicker(eventPingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-sub.C():
			if err := h.send(conn); err != nil {
				h.logf("event write: %v", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(eventWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h *eventsHandler) send(conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(eventWriteWait))
	return conn.WriteJSON(newLightResponse(h.light.Snapshot()))
}

// readUntilClosed drains client frames so control messages are handled,
// and closes done when the peer goes away.
func (h *eventsHandler) readUntilClosed(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(1 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(eventPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(eventPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *eventsHandler) logf(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Errorf("web", format, args...)
	}
}
