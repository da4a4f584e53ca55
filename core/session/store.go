// Package session keeps per-user request-scoped state: the in-progress trip
// plan and the last known vehicle state of charge. The store is owned by the
// caller and passed explicitly; nothing here is process-global.
package session

import (
	"sync"
	"time"

	"github.com/evtrip/planner/core/model"
)

// Session is the memoized state for one user.
type Session struct {
	UserID    string          `json:"user_id"`
	Plan      *model.TripPlan `json:"plan,omitempty"`
	SoC       float64         `json:"soc"` // live state of charge, fraction
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store holds sessions keyed by user.
type Store interface {
	Get(userID string) (Session, bool)
	SetPlan(userID string, p model.TripPlan)
	SetSoC(userID string, soc float64)
	Clear(userID string)
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Session{}}
}

func (s *MemoryStore) Get(userID string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.data[userID]
	return sess, ok
}

func (s *MemoryStore) SetPlan(userID string, p model.TripPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.data[userID]
	sess.UserID = userID
	sess.Plan = &p
	sess.UpdatedAt = time.Now().UTC()
	s.data[userID] = sess
}

func (s *MemoryStore) SetSoC(userID string, soc float64) {
	if soc < 0 {
		soc = 0
	}
	if soc > 1 {
		soc = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.data[userID]
	sess.UserID = userID
	sess.SoC = soc
	sess.UpdatedAt = time.Now().UTC()
	s.data[userID] = sess
}

func (s *MemoryStore) Clear(userID string) {
	s.mu.Lock()
	delete(s.data, userID)
	s.mu.Unlock()
}
