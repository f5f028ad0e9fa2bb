// Package events fans out realtime notifications to websocket subscribers.
package events

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taejunjeon/leadership/internal/async"
	"github.com/taejunjeon/leadership/internal/logging"
)

// Event types.
const (
	TypeAnalysisCompleted = "analysis.completed"
	TypeHighRisk          = "analysis.high_risk"
	TypeCriticalAnomaly   = "anomaly.critical"
)

// Event is one message on the feed.
type Event struct {
	Type      string    `json:"type"`
	SubjectID string    `json:"user_id,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	sendBuffer = 32
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type subscriber struct {
	conn *websocket.Conn
	send chan Event
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// Hub tracks websocket subscribers. Slow subscribers drop events rather
// than block publishers.
type Hub struct {
	upgrader websocket.Upgrader
	logger   logging.Logger

	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool
}

// NewHub builds a Hub. allowOrigin nil accepts every origin.
func NewHub(allowOrigin func(origin string) bool, logger logging.Logger) *Hub {
	if logging.IsNil(logger) {
		logger = logging.NewComponentLogger("events")
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowOrigin == nil {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin(origin)
			},
		},
		logger: logger,
		subs:   make(map[*subscriber]struct{}),
	}
}

// Publish delivers e to every subscriber.
func (h *Hub) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.send <- e:
		default:
			h.logger.Warn("dropping %s event for slow subscriber", e.Type)
		}
	}
}

// Subscribers counts live connections.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// ServeHTTP upgrades the request and streams events until the peer leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	sub := &subscriber{conn: conn, send: make(chan Event, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	async.Go(h.logger, "events.writer", func() { h.writeLoop(sub) })
	h.readLoop(sub)
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		sub.close()
	}
	h.mu.Unlock()
}

// readLoop discards client frames; it exists to observe pongs and close.
func (h *Hub) readLoop(sub *subscriber) {
	defer func() {
		h.remove(sub)
		_ = sub.conn.Close()
	}()
	sub.conn.SetReadLimit(512)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sub.conn.Close()
	}()
	for {
		select {
		case e, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := sub.conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		sub.close()
	}
}
