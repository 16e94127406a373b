// pattern: Imperative Shell

package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// eventBroker fans out "fit completed" signals to SSE subscribers.
type eventBroker struct {
	mu          sync.Mutex
	subscribers map[chan struct{}]struct{}
}

func newEventBroker() *eventBroker {
	return &eventBroker{
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a buffered channel that receives a signal on each Notify call.
// The caller must call Unsubscribe when done.
func (b *eventBroker) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel.
func (b *eventBroker) Unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	b.mu.Unlock()
}

// Len reports the number of live subscribers.
func (b *eventBroker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Notify signals all subscribers without blocking. A subscriber that has not
// consumed its previous signal keeps just the one pending signal; it reads
// the store when it wakes, so it still sees the latest fit.
func (b *eventBroker) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// handleEvents is the SSE endpoint. It sends a "connected" event on open,
// then a "fit" event carrying the latest geometry each time the broker is
// notified.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.events.Subscribe()
	defer s.events.Unsubscribe(ch)

	fmt.Fprintf(w, "event: connected\ndata: ok\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ch:
			g, ok := s.store.Get()
			if !ok {
				continue
			}
			data, err := json.Marshal(g)
			if err != nil {
				s.logger.Error("encode geometry", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: fit\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
