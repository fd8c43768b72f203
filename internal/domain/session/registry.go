package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultIdleTTL     = 30 * time.Minute
	defaultMaxSessions = 10000
)

// Config bounds how long and how many sessions are retained.
type Config struct {
	IdleTTL     time.Duration
	MaxSessions int
}

// Registry tracks live sessions by id.
type Registry struct {
	svc         Recommender
	logger      *slog.Logger
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
	newID       func() string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry builds an empty registry.
func NewRegistry(cfg Config, svc Recommender, logger *slog.Logger) *Registry {
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	maxSessions := cfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	return &Registry{
		svc:         svc,
		logger:      logger,
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
		newID:       uuid.NewString,
		sessions:    make(map[string]*Session),
	}
}

// Replace closes the session stored under previousID, if any, and opens a
// fresh one. It models a page (re)load.
func (r *Registry) Replace(previousID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.sessions[previousID]; ok {
		old.Close()
		delete(r.sessions, previousID)
	}
	r.cleanupLocked(r.now())
	return r.openLocked()
}

// Resume returns the session for id, opening a new one when it is unknown.
func (r *Registry) Resume(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanupLocked(r.now())
	if s, ok := r.sessions[id]; ok {
		return s
	}
	return r.openLocked()
}

// Get looks up a live session.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll drops every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		s.Close()
		delete(r.sessions, id)
	}
}

func (r *Registry) openLocked() *Session {
	if len(r.sessions) >= r.maxSessions {
		r.evictOldestLocked(r.now())
	}
	s := newSession(r.newID(), r.svc, r.logger, r.now)
	r.sessions[s.ID()] = s
	return s
}

// evictOldestLocked closes the session that has been idle the longest.
// Sessions with a request in flight report zero idle time and go last.
func (r *Registry) evictOldestLocked(now time.Time) {
	var (
		oldestID string
		oldest   time.Duration = -1
	)
	for id, s := range r.sessions {
		if idle := s.idleSince(now); idle > oldest {
			oldestID, oldest = id, idle
		}
	}
	if s, ok := r.sessions[oldestID]; ok {
		s.Close()
		delete(r.sessions, oldestID)
		r.logger.Warn("session limit reached, evicted oldest", "session_id", oldestID, "idle", oldest)
	}
}

func (r *Registry) cleanupLocked(now time.Time) {
	for id, s := range r.sessions {
		if s.idleSince(now) > r.ttl {
			s.Close()
			delete(r.sessions, id)
		}
	}
}
