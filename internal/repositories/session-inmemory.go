package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

type sessionInMemory struct {
	mu            sync.Mutex
	sessions      map[uuid.UUID]domain.VerificationSession
	verifications *verificationInMemory
}

// NewSessionInMemory returns a SessionRepository implemented in memory
// convenient for testing. The paired verification repository must be the one
// used for reads so CreateWithVerification lands both rows in the same place.
func NewSessionInMemory(verifications *verificationInMemory) *sessionInMemory {
	return &sessionInMemory{
		sessions:      make(map[uuid.UUID]domain.VerificationSession),
		verifications: verifications,
	}
}

// Put stores the session as is, bypassing the create path. Used by tests to
// seed sessions in arbitrary states.
func (r *sessionInMemory) Put(s domain.VerificationSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *sessionInMemory) CreateWithVerification(_ context.Context, s *domain.VerificationSession, v *domain.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	r.verifications.put(*v)
	return nil
}

func (r *sessionInMemory) GetByID(_ context.Context, id uuid.UUID) (*domain.VerificationSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, found := r.sessions[id]
	if !found {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (r *sessionInMemory) UpdateDetails(_ context.Context, id uuid.UUID, details map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, found := r.sessions[id]
	if !found || s.Status != domain.StatusPending {
		return ErrSessionNotPending
	}
	s.Details = details
	r.sessions[id] = s
	return nil
}

func (r *sessionInMemory) FinishWithVerification(_ context.Context, id uuid.UUID, status domain.SessionStatus, result domain.VerificationResultStatus, details map[string]any, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, found := r.sessions[id]
	if !found || s.Status != domain.StatusPending {
		return ErrSessionNotPending
	}
	if err := r.verifications.finish(id, result, details, completedAt); err != nil {
		return err
	}
	s.Status = status
	s.Result = &result
	s.Details = details
	s.CompletedAt = &completedAt
	r.sessions[id] = s
	return nil
}
