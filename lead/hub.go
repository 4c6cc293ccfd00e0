package lead

import (
	"sync"

	"pipedesk/models"
)

// Hub fans the latest lead snapshot out to console subscribers. A slow
// subscriber never blocks the publisher: its stale snapshot is dropped and
// replaced with the newest one, which is all a wholesale-replace view needs.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan []models.Lead]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: map[chan []models.Lead]struct{}{}}
}

// Subscribe registers a snapshot channel. The caller must Unsubscribe when
// done; the channel is closed there.
func (h *Hub) Subscribe() chan []models.Lead {
	ch := make(chan []models.Lead, 1)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan []models.Lead) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; !ok {
		return
	}
	delete(h.subscribers, ch)
	close(ch)
}

// Publish delivers the snapshot to every subscriber, superseding any
// undelivered previous one.
func (h *Hub) Publish(leads []models.Lead) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- leads:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- leads:
			default:
			}
		}
	}
}
