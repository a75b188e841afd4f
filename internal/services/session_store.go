package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zekroTJA/timedmap"
)

// SessionStore keeps one FormController per visitor. Sessions expire after
// ttl without activity and their controllers are closed.
type SessionStore struct {
	mu      sync.Mutex
	entries *timedmap.TimedMap
	ttl     time.Duration
	deps    FormDeps
	metrics *submitMetrics
}

func NewSessionStore(ttl time.Duration, deps FormDeps) *SessionStore {
	cleanup := ttl / 4
	if cleanup < time.Second {
		cleanup = time.Second
	}
	return &SessionStore{
		entries: timedmap.New(cleanup),
		ttl:     ttl,
		deps:    deps,
		metrics: getMetrics(),
	}
}

// Get returns the controller for sessionID and refreshes its expiry. An empty
// or unknown id starts a new session; the returned id is the one to keep.
func (s *SessionStore) Get(sessionID string) (*FormController, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID != "" {
		if c, ok := s.entries.GetValue(sessionID).(*FormController); ok {
			s.entries.Set(sessionID, c, s.ttl, s.expired)
			return c, sessionID
		}
	}

	id := uuid.NewString()
	c := NewFormController(id, s.deps)
	s.entries.Set(id, c, s.ttl, s.expired)
	s.metrics.sessions.Inc()
	return c, id
}

func (s *SessionStore) Len() int {
	return s.entries.Size()
}

// Close stops the cleaner, closes every live controller and drops the
// sessions. Flush skips expiry callbacks, so they are run here first.
func (s *SessionStore) Close() {
	s.entries.StopCleaner()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, value := range s.entries.Snapshot() {
		s.expired(value)
	}
	s.entries.Flush()
}

func (s *SessionStore) expired(value interface{}) {
	if c, ok := value.(*FormController); ok {
		c.Close()
	}
	s.metrics.sessions.Dec()
}
