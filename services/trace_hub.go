package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TraceEvent is the observability record for one AI suggestion: the
// prompt that went out, what came back, and the token counters. It is
// a side channel for external tracing tools, not part of the
// suggestion contract.
type TraceEvent struct {
	Kind    string      `json:"kind"`
	Prompt  string      `json:"prompt"`
	Output  string      `json:"output,omitempty"`
	Error   string      `json:"error,omitempty"`
	Usage   *TokenUsage `json:"usage,omitempty"`
	At      time.Time   `json:"at"`
}

type TraceClient struct {
	UserID uint
	Conn   *websocket.Conn
}

// TraceHub fans trace events out to the websocket subscribers of the
// user they belong to. Publishing to a user with no subscribers is a
// no-op.
type TraceHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*TraceClient]struct{}
}

func NewTraceHub() *TraceHub {
	return &TraceHub{clients: make(map[uint]map[*TraceClient]struct{})}
}

func (h *TraceHub) Register(c *TraceClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*TraceClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *TraceHub) Unregister(c *TraceClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *TraceHub) Publish(userID uint, ev TraceEvent) {
	msg, _ := json.Marshal(ev)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}
