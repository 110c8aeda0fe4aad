// Package feed pushes live ranking updates to websocket subscribers.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/origincode/arcmugbot/internal/store"
)

// rankUpdate is the wire format of one push.
type rankUpdate struct {
	Type    string      `json:"type"`
	Level   int         `json:"level"`
	Course  string      `json:"course"`
	Entries []rankEntry `json:"entries"`
}

type rankEntry struct {
	Fullname string `json:"fullname"`
	Life     int    `json:"life"`
}

type subscriber struct {
	ch chan []byte
}

// Hub fans ranking updates out to connected websocket clients. A
// subscriber that cannot keep up has its connection dropped rather
// than blocking the submit path.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Publish implements courses.RankNotifier. It never blocks: slow
// subscribers are detached and closed.
func (h *Hub) Publish(level int, course string, entries []store.RankEntry) {
	update := rankUpdate{
		Type:    "rank",
		Level:   level,
		Course:  course,
		Entries: make([]rankEntry, 0, len(entries)),
	}
	for _, e := range entries {
		update.Entries = append(update.Entries, rankEntry{Fullname: e.Fullname, Life: e.Life})
	}

	data, err := json.Marshal(update)
	if err != nil {
		slog.Error("Failed to encode rank update", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.ch <- data:
		default:
			delete(h.subs, sub)
			close(sub.ch)
			slog.Warn("Dropping slow rank feed subscriber")
		}
	}
}

func (h *Hub) subscribe() *subscriber {
	sub := &subscriber{ch: make(chan []byte, 16)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.ch)
	}
	h.mu.Unlock()
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Handler upgrades requests to websocket and streams ranking updates.
type Handler struct {
	hub           *Hub
	allowedOrigin string
	isDev         bool
}

// NewHandler creates a websocket feed handler.
func NewHandler(hub *Hub, allowedOrigin string, isDev bool) *Handler {
	return &Handler{hub: hub, allowedOrigin: allowedOrigin, isDev: isDev}
}

func (h *Handler) acceptOptions() *websocket.AcceptOptions {
	if h.isDev || h.allowedOrigin == "" {
		return &websocket.AcceptOptions{InsecureSkipVerify: true}
	}
	return &websocket.AcceptOptions{OriginPatterns: []string{h.allowedOrigin}}
}

// ServeHTTP implements http.Handler for the websocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, h.acceptOptions())
	if err != nil {
		slog.Error("Failed to accept rank feed websocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	slog.Info("Rank feed subscriber connected", "ip", r.RemoteAddr)

	sub := h.hub.subscribe()
	defer h.hub.unsubscribe(sub)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The feed is one-way; the read loop only notices disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			ws.Close(websocket.StatusNormalClosure, "feed closed")
			return
		case data, ok := <-sub.ch:
			if !ok {
				ws.Close(websocket.StatusPolicyViolation, "subscriber too slow")
				return
			}
			if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
				slog.Debug("Rank feed write error", "error", err)
				return
			}
		}
	}
}
