package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

type proofInMemory struct {
	mu      sync.Mutex
	proofs  map[string]domain.SavedVerification
	results []domain.VerificationResult
}

// NewProofInMemory returns a ProofRepository implemented in memory convenient
// for testing
func NewProofInMemory() *proofInMemory {
	return &proofInMemory{proofs: make(map[string]domain.SavedVerification)}
}

func (r *proofInMemory) SaveProof(_ context.Context, p *domain.SavedVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proofs[p.Hash] = *p
	return nil
}

// ProofCount reports how many proofs have been stored. Used by tests.
func (r *proofInMemory) ProofCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.proofs)
}

func (r *proofInMemory) GetProofByHash(_ context.Context, hash string) (*domain.SavedVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, found := r.proofs[hash]
	if !found {
		return nil, ErrProofNotFound
	}
	return &p, nil
}

func (r *proofInMemory) SaveResult(_ context.Context, result *domain.VerificationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, *result)
	return nil
}

func (r *proofInMemory) GetResultByID(_ context.Context, id uuid.UUID) (*domain.VerificationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.results {
		if res.ID == id {
			out := res
			return &out, nil
		}
	}
	return nil, ErrProofNotFound
}

func (r *proofInMemory) GetLatestResult(_ context.Context, saveMethod domain.SaveMethod, identifier string, now time.Time) (*domain.VerificationResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.VerificationResult
	for i := range r.results {
		res := r.results[i]
		if res.SaveMethod != saveMethod || res.Identifier != identifier || res.ValidUntil.Before(now) {
			continue
		}
		if latest == nil || res.CreatedAt.After(latest.CreatedAt) {
			latest = &r.results[i]
		}
	}
	if latest == nil {
		return nil, ErrProofNotFound
	}
	out := *latest
	return &out, nil
}
