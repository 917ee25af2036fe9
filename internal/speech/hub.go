package speech

import (
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/chefai/internal/logger"
)

// subscriberBuffer is how many commands a slow listener may lag behind
// before new ones are dropped for it.
const subscriberBuffer = 16

// Hub fans speech commands out to connected browsers.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan Command
	log  *logger.Logger
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{subs: make(map[string]chan Command), log: log.Named("hub")}
}

// Subscribe registers a listener and returns its id and command stream.
func (h *Hub) Subscribe() (string, <-chan Command) {
	id := uuid.NewString()
	ch := make(chan Command, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	n := len(h.subs)
	h.mu.Unlock()

	h.log.Info("listener %s connected (%d total)", id[:8], n)
	return id, ch
}

// Unsubscribe removes a listener and closes its stream.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	delete(h.subs, id)
	n := len(h.subs)
	h.mu.Unlock()

	if ok {
		close(ch)
		h.log.Info("listener %s disconnected (%d left)", id[:8], n)
	}
}

// Listeners returns the number of connected listeners.
func (h *Hub) Listeners() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish hands cmd to every listener without blocking and returns how
// many accepted it.
func (h *Hub) Publish(cmd Command) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for id, ch := range h.subs {
		select {
		case ch <- cmd:
			delivered++
		default:
			h.log.Warn("listener %s is lagging, dropped %s", id[:8], cmd.Op)
		}
	}
	return delivered
}
