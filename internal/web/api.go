// pattern: Imperative Shell

package web

import (
	"encoding/json"
	"net/http"
	"time"

	"devframe/internal/events"
	"devframe/internal/simulator"
)

// HealthResponse is the JSON body of GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id,omitempty"`
	UptimeSec int64  `json:"uptime_sec"`
	Fits      uint64 `json:"fits"`
}

// ActionResponse is the JSON body of an accepted action.
type ActionResponse struct {
	Action   string `json:"action"`
	Accepted bool   `json:"accepted"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	g, _ := s.store.Get()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		SessionID: s.sessionID,
		UptimeSec: int64(time.Since(s.startedAt) / time.Second),
		Fits:      g.Seq,
	})
}

// handleGeometry handles GET /api/geometry.
// Returns 404 until the first fit pass completes.
func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	g, ok := s.store.Get()
	if !ok {
		writeError(w, http.StatusNotFound, "no fit yet")
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// handleListActions handles GET /api/actions.
func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"actions": simulator.Actions})
}

// handleAction handles POST /api/actions/{name}. The action runs on the
// preview goroutine, so 202 only means it was queued.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !simulator.ValidAction(name) {
		s.logger.Warn("unknown action", "name", name)
		writeError(w, http.StatusBadRequest, "unknown action: "+name)
		return
	}
	s.logger.Info("action queued", "name", name)
	s.notify(events.ActionMsg{Name: name})
	writeJSON(w, http.StatusAccepted, ActionResponse{Action: name, Accepted: true})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
