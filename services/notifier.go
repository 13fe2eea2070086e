package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Event types pushed to connected clients.
const (
	EventLevelUp     = "level_up"
	EventAchievement = "achievement"
	EventSnoop       = "snoop"
)

// Event is one real-time notification.
type Event struct {
	Type string                 `json:"type"`
	User string                 `json:"user"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// Notifier publishes events to whoever is listening. Publish never blocks
// and never fails; delivery is best effort.
type Notifier interface {
	Publish(event Event)
}

// NopNotifier drops every event. Used when no client transport is wired.
type NopNotifier struct{}

func (NopNotifier) Publish(Event) {}

// SSENotifier fans events out to subscribed SSE connections.
type SSENotifier struct {
	mu   sync.Mutex
	subs map[string]chan Event
}

func NewSSENotifier() *SSENotifier {
	return &SSENotifier{subs: make(map[string]chan Event)}
}

func (n *SSENotifier) Publish(event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- event:
		default:
			// Slow client, drop the event rather than stall the publisher.
		}
	}
}

func (n *SSENotifier) subscribe() (string, chan Event) {
	id := uuid.New().String()
	ch := make(chan Event, 16)
	n.mu.Lock()
	n.subs[id] = ch
	n.mu.Unlock()
	return id, ch
}

func (n *SSENotifier) unsubscribe(id string) {
	n.mu.Lock()
	delete(n.subs, id)
	n.mu.Unlock()
}

// StreamSSE streams events to one client until it disconnects.
func (n *SSENotifier) StreamSSE(c *fiber.Ctx) error {
	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	id, events := n.subscribe()
	ctx := c.Context()

	ctx.SetBodyStreamWriter(func(w *bufio.Writer) {
		defer n.unsubscribe(id)

		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case event := <-events:
				payload, err := json.Marshal(event)
				if err != nil {
					log.Printf("SSE marshal error: %v", err)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}
			case <-keepalive.C:
				w.WriteString(":\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})

	return nil
}
