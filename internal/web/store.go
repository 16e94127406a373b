// pattern: Imperative Shell

package web

import (
	"sync"

	"devframe/internal/fit"
)

// Store hands the latest fit geometry from the preview goroutine to HTTP
// handlers.
type Store struct {
	mu   sync.RWMutex
	geom fit.Geometry
	ok   bool
}

func NewStore() *Store {
	return &Store{}
}

// Set replaces the stored geometry. Older sequence numbers are ignored.
func (s *Store) Set(g fit.Geometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ok && g.Seq != 0 && g.Seq < s.geom.Seq {
		return
	}
	s.geom, s.ok = g, true
}

// Get returns the latest geometry and whether any fit has completed.
func (s *Store) Get() (fit.Geometry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.geom, s.ok
}
