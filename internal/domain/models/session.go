package models

import (
	"sync"
	"time"
)

// Session holds one visitor's unlock state. It is never shared between visitors.
type Session struct {
	ID string

	mu          sync.Mutex
	verifiedKey string
	keyMask     string
	firstSeen   map[string]time.Time
	lastAccess  time.Time
}

func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, firstSeen: make(map[string]time.Time), lastAccess: now}
}

// FirstSeen returns the first-use date recorded for key, recording today on first sight.
// Once set, the value never changes for the life of the session.
func (s *Session) FirstSeen(key string, today time.Time) (first time.Time, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.firstSeen[key]; ok {
		return t, false
	}
	s.firstSeen[key] = today
	return today, true
}

// SetFirstSeen seeds a first-use date if none exists yet.
func (s *Session) SetFirstSeen(key string, day time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.firstSeen[key]; !ok {
		s.firstSeen[key] = day
	}
}

func (s *Session) Unlock(key, mask string) {
	s.mu.Lock()
	s.verifiedKey, s.keyMask = key, mask
	s.mu.Unlock()
}

func (s *Session) Lock() {
	s.mu.Lock()
	s.verifiedKey, s.keyMask = "", ""
	s.mu.Unlock()
}

// Verified returns the unlocked key and its mask, or empty strings.
func (s *Session) Verified() (key, mask string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verifiedKey, s.keyMask
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastAccess = now
	s.mu.Unlock()
}

func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}
