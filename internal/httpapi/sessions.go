package httpapi

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"quizbank/internal/screen"
)

const defaultSessionTTL = 2 * time.Hour

type quizSession struct {
	controller *screen.QuizController
	lastSeen   time.Time
}

// sessionStore keeps running quizzes in memory. Sessions idle for longer
// than ttl are dropped on the next access.
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*quizSession
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*quizSession),
	}
}

func (s *sessionStore) create(controller *screen.QuizController) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	id := uuid.NewString()
	s.sessions[id] = &quizSession{controller: controller, lastSeen: s.now()}
	return id
}

func (s *sessionStore) get(id string) (*screen.QuizController, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	session, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	session.lastSeen = s.now()
	return session.controller, true
}

func (s *sessionStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *sessionStore) evictLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, session := range s.sessions {
		if session.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
