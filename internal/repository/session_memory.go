package repository

import (
	"context"
	"sync"
	"time"

	"EigenFlow/internal/domain/models"
	domrepo "EigenFlow/internal/domain/repository"

	"github.com/google/uuid"
)

// MemorySessionStore keeps sessions in process memory. Everything is lost on restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	idleTTL  time.Duration
	now      domrepo.Clock
	metrics  domrepo.Metrics
}

func NewMemorySessionStore(idleTTL time.Duration, now domrepo.Clock, metrics domrepo.Metrics) *MemorySessionStore {
	if now == nil {
		now = time.Now
	}
	return &MemorySessionStore{
		sessions: make(map[string]*models.Session),
		idleTTL:  idleTTL,
		now:      now,
		metrics:  metrics,
	}
}

// Get returns a live session and refreshes its idle timer.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*models.Session, bool) {
	if id == "" {
		return nil, false
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess, now) {
		delete(s.sessions, id)
		s.report()
		return nil, false
	}
	sess.Touch(now)
	return sess, true
}

// Create issues a new session with a random identifier.
func (s *MemorySessionStore) Create(_ context.Context) (*models.Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess := models.NewSession(id.String(), now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)
	s.sessions[sess.ID] = sess
	s.report()
	return sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.report()
	s.mu.Unlock()
}

func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) expired(sess *models.Session, now time.Time) bool {
	return s.idleTTL > 0 && now.Sub(sess.LastAccess()) > s.idleTTL
}

// sweep drops idle sessions. Caller holds mu.
func (s *MemorySessionStore) sweep(now time.Time) {
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
		}
	}
}

// report publishes the session count. Caller holds mu.
func (s *MemorySessionStore) report() {
	if s.metrics != nil {
		s.metrics.SetSessions(len(s.sessions))
	}
}

var _ domrepo.SessionStore = (*MemorySessionStore)(nil)
