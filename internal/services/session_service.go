package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/logger"
)

// Session holds the flow controller for a single visitor.
type Session struct {
	mu           sync.Mutex
	controller   *Controller
	LastActivity time.Time
}

// ControllerFactory builds a fresh controller for a new visitor.
type ControllerFactory func() *Controller

// SessionService manages one session per visitor.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*Session // Key: session id
	factory  ControllerFactory
	now      func() time.Time

	// OnSweep receives the number of sessions left after each janitor pass.
	OnSweep func(active int)
}

// NewSessionService creates and initializes a new SessionService.
func NewSessionService(factory ControllerFactory) *SessionService {
	return &SessionService{
		sessions: make(map[string]*Session),
		factory:  factory,
		now:      time.Now,
	}
}

// getSession returns a session for a visitor, creating one if it doesn't exist.
func (s *SessionService) getSession(sessionID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		session = &Session{controller: s.factory()}
		s.sessions[sessionID] = session
	}
	session.LastActivity = s.now()
	return session
}

// WithController runs fn against the visitor's controller. Calls for the
// same visitor never overlap.
func (s *SessionService) WithController(sessionID string, fn func(*Controller) error) error {
	session := s.getSession(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()
	return fn(session.controller)
}

// Count returns the number of live sessions.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CleanUpInactiveSessions removes sessions that have been inactive for longer than ttl.
func (s *SessionService) CleanUpInactiveSessions(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	cutoff := s.now().Add(-ttl)
	for sessionID, session := range s.sessions {
		if session.LastActivity.Before(cutoff) {
			delete(s.sessions, sessionID)
			removed++
		}
	}
	return removed
}

// RunJanitor cleans up inactive sessions every interval until ctx is done.
func (s *SessionService) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ttl)
		}
	}
}

func (s *SessionService) sweep(ttl time.Duration) {
	n := s.CleanUpInactiveSessions(ttl)
	active := s.Count()
	if n > 0 {
		logger.Infof("Removed %d inactive sessions, %d remaining", n, active)
	}
	if s.OnSweep != nil {
		s.OnSweep(active)
	}
}

// ClearSession removes all data associated with a specific session.
func (s *SessionService) ClearSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return
	}
	delete(s.sessions, sessionID)
	logger.Infof("Cleared session: %s", sessionID)
}
