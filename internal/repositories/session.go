package repositories

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"skillbridge/gap-analyzer/internal/services"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository keeps live sessions in memory only; nothing survives a restart.
type SessionRepository interface {
	Create(session *services.AnalysisSession) uuid.UUID
	FindByID(id uuid.UUID) (*services.AnalysisSession, error)
	Delete(id uuid.UUID) error
	DeleteIdleSince(cutoff time.Time) int
	Count() int
}

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*services.AnalysisSession
}

func NewSessionRepository() SessionRepository {
	return &sessionRepository{
		sessions: make(map[uuid.UUID]*services.AnalysisSession),
	}
}

// Create implements SessionRepository.
func (r *sessionRepository) Create(session *services.AnalysisSession) uuid.UUID {
	id := uuid.New()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = session

	return id
}

// FindByID implements SessionRepository.
func (r *sessionRepository) FindByID(id uuid.UUID) (*services.AnalysisSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete implements SessionRepository.
func (r *sessionRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// DeleteIdleSince implements SessionRepository. Sessions with a run in
// flight are kept regardless of age.
func (r *sessionRepository) DeleteIdleSince(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if session.IsSubmitting() || session.UpdatedAt().After(cutoff) {
			continue
		}
		delete(r.sessions, id)
		removed++
	}
	return removed
}

// Count implements SessionRepository.
func (r *sessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
