// Package realtime pushes notification events to connected websocket
// sessions. Each user has a private channel; every open session of that user
// receives the events addressed to it.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/maheshrc27/community-api/internal/models"
)

const (
	EventNotification = "notification"

	sendBuffer = 16
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Event is the frame written to a session.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Authenticator resolves the caller of an upgrade request.
type Authenticator func(r *http.Request) (models.Identity, error)

type session struct {
	id     string
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

type Hub struct {
	auth     Authenticator
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[int64]map[string]*session
}

func NewHub(auth Authenticator, allowedOrigin string, logger *slog.Logger) *Hub {
	return &Hub{
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "" || origin == allowedOrigin
			},
		},
		logger:   logger,
		sessions: make(map[int64]map[string]*session),
	}
}

// Publish delivers n to the recipient's sessions on this process.
func (h *Hub) Publish(_ context.Context, n *models.Notification) error {
	frame, err := encodeNotification(n)
	if err != nil {
		return err
	}
	h.Deliver(n.RecipientID, frame)
	return nil
}

// Deliver queues frame on every session of userID and returns how many
// sessions accepted it. A session whose buffer is full misses the frame.
func (h *Hub) Deliver(userID int64, frame []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, s := range h.sessions[userID] {
		select {
		case s.send <- frame:
			delivered++
		default:
			h.logger.Warn("session buffer full, dropping event", "user_id", userID, "session_id", s.id)
		}
	}
	return delivered
}

// Sessions returns the number of open sessions for userID.
func (h *Hub) Sessions(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.auth(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "user_id", identity.ID, "error", err)
		return
	}

	s := &session{
		id:     uuid.NewString(),
		userID: identity.ID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.register(s)

	go h.writePump(s)
	h.readPump(s)
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[s.userID] == nil {
		h.sessions[s.userID] = make(map[string]*session)
	}
	h.sessions[s.userID][s.id] = s
	h.logger.Info("session connected", "user_id", s.userID, "session_id", s.id)
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userSessions := h.sessions[s.userID]
	if _, ok := userSessions[s.id]; !ok {
		return
	}
	delete(userSessions, s.id)
	if len(userSessions) == 0 {
		delete(h.sessions, s.userID)
	}
	close(s.send)
	h.logger.Info("session disconnected", "user_id", s.userID, "session_id", s.id)
}

// readPump only watches for the peer going away; clients never send events.
func (h *Hub) readPump(s *session) {
	defer func() {
		h.unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(s *session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func encodeNotification(n *models.Notification) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: EventNotification, Data: data})
}
