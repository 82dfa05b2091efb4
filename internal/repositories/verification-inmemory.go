package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

type verificationInMemory struct {
	mu            sync.Mutex
	verifications map[uuid.UUID]domain.Verification
}

// NewVerificationInMemory returns a VerificationRepository implemented in
// memory convenient for testing
func NewVerificationInMemory() *verificationInMemory {
	return &verificationInMemory{verifications: make(map[uuid.UUID]domain.Verification)}
}

func (r *verificationInMemory) put(v domain.Verification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifications[v.ID] = v
}

func (r *verificationInMemory) GetByID(_ context.Context, id uuid.UUID) (*domain.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, found := r.verifications[id]
	if !found {
		return nil, ErrVerificationNotFound
	}
	return &v, nil
}

func (r *verificationInMemory) GetBySessionID(_ context.Context, sessionID uuid.UUID) (*domain.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.verifications {
		if v.SessionID == sessionID {
			out := v
			return &out, nil
		}
	}
	return nil, ErrVerificationNotFound
}

func (r *verificationInMemory) finish(sessionID uuid.UUID, result domain.VerificationResultStatus, metadata map[string]any, completedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, v := range r.verifications {
		if v.SessionID == sessionID && v.Status == domain.VerificationPending {
			v.Result = string(result)
			v.Status = domain.VerificationCompleted
			v.Metadata = metadata
			v.CompletedAt = &completedAt
			r.verifications[id] = v
			return nil
		}
	}
	return ErrVerificationNotFound
}
