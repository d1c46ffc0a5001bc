package powersupply

import "sync"

// Hub broadcasts payload-free change notifications for one supply.
// Consumers re-query the properties they care about after a wakeup.
// A nil *Hub is valid and drops all notifications.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan string]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub { return &Hub{subs: make(map[chan string]struct{})} }

// Subscribe registers a listener. The channel carries the name of the
// supply whose properties changed.
func (h *Hub) Subscribe() chan string {
	ch := make(chan string, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a listener channel.
func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Changed notifies all listeners that the named supply's properties may
// have changed. Slow listeners are skipped, never blocked on; callers may
// therefore hold no locks but also need no goroutine.
func (h *Hub) Changed(supply string) {
	if h == nil {
		return
	}
	h.mu.RLock()
	for ch := range h.subs {
		select {
		case ch <- supply:
		default:
		}
	}
	h.mu.RUnlock()
}
