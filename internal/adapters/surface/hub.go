package surface

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ccsustmap/campusmap/internal/core/domain"
)

// Event types pushed to live clients.
const (
	EventCameraTransition = "camera_transition"
	EventNavigationLink   = "navigation_link"
	EventState            = "state"
)

// Event is one message on the live feed.
type Event struct {
	Type       string                   `json:"type"`
	Transition *domain.CameraTransition `json:"transition,omitempty"`
	Link       string                   `json:"link,omitempty"`
	State      *domain.ViewState        `json:"state,omitempty"`
}

// Hub fans events out to in-process subscribers such as WebSocket clients.
// Slow subscribers miss events rather than block the session.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan []byte
	next   int
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{subs: make(map[int]chan []byte), logger: logger}
}

// Subscribe registers a subscriber. The returned func unregisters it and
// closes the channel.
func (h *Hub) Subscribe(buffer int) (<-chan []byte, func()) {
	ch := make(chan []byte, buffer)
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Len is the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish encodes ev and delivers it to every subscriber without blocking.
func (h *Hub) Publish(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		select {
		case ch <- data:
		default:
			h.logger.Debug("live subscriber lagging, event dropped", "subscriber", id, "type", ev.Type)
		}
	}
	return nil
}

// RequestCameraTransition implements ports.MapSurface.
func (h *Hub) RequestCameraTransition(ctx context.Context, t domain.CameraTransition) error {
	return h.Publish(Event{Type: EventCameraTransition, Transition: &t})
}

// NavigationLink relays a deep link produced by the link launcher.
func (h *Hub) NavigationLink(link string) {
	if err := h.Publish(Event{Type: EventNavigationLink, Link: link}); err != nil {
		h.logger.Warn("relay navigation link", "error", err)
	}
}
