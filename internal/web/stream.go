// pattern: Imperative Shell

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"devframe/internal/events"
	"devframe/internal/fit"
	"devframe/internal/simulator"
)

// ControlMessage is sent from a stream client to drive the simulator.
type ControlMessage struct {
	Type string `json:"type"` // "action"
	Name string `json:"name"`
}

// streamHub fans geometry out to websocket subscribers. Each subscriber
// holds at most one pending geometry; a newer fit replaces an unread one.
type streamHub struct {
	mu          sync.Mutex
	subscribers map[chan fit.Geometry]struct{}
}

func newStreamHub() *streamHub {
	return &streamHub{subscribers: make(map[chan fit.Geometry]struct{})}
}

func (h *streamHub) Subscribe() chan fit.Geometry {
	ch := make(chan fit.Geometry, 1)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *streamHub) Unsubscribe(ch chan fit.Geometry) {
	h.mu.Lock()
	delete(h.subscribers, ch)
	h.mu.Unlock()
}

func (h *streamHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast never blocks. Only this method sends on subscriber channels and
// it holds the lock, so the drain-then-send cannot race another sender.
func (h *streamHub) Broadcast(g fit.Geometry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- g
	}
}

// StreamSubscribers reports the number of connected websocket clients.
func (s *Server) StreamSubscribers() int {
	return s.stream.Len()
}

// HandleStream upgrades to websocket and sends one JSON text frame per fit,
// starting with the current geometry if a fit has completed. Text frames
// from the client are parsed as ControlMessage.
func (s *Server) HandleStream(w http.ResponseWriter, r *http.Request) {
	// Do not use r.Context() after Accept.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"127.0.0.1:*", "localhost:*"},
	})
	if err != nil {
		s.logger.Error("websocket accept failed", "error", err)
		return
	}
	defer func() { _ = conn.CloseNow() }()
	conn.SetReadLimit(64 << 10)

	ch := s.stream.Subscribe()
	defer s.stream.Unsubscribe(ch)

	s.logger.Info("stream connected", "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Client → server control messages. A read error means the peer went away.
	go func() {
		defer cancel()
		for {
			msgType, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if msgType != websocket.MessageText {
				continue
			}
			var msg ControlMessage
			if json.Unmarshal(data, &msg) != nil || msg.Type != "action" {
				continue
			}
			if !simulator.ValidAction(msg.Name) {
				s.logger.Warn("unknown stream action", "name", msg.Name)
				continue
			}
			s.notify(events.ActionMsg{Name: msg.Name})
		}
	}()

	if g, ok := s.store.Get(); ok {
		if err := wsjson.Write(ctx, conn, g); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stream disconnected", "remote", r.RemoteAddr)
			_ = conn.Close(websocket.StatusNormalClosure, "stream closed")
			return
		case g := <-ch:
			if err := wsjson.Write(ctx, conn, g); err != nil {
				return
			}
		}
	}
}
