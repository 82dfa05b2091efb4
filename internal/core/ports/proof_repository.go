package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

// ProofRepository is the storage of reusable proofs and their channel bindings
type ProofRepository interface {
	// SaveProof stores a minted proof token
	SaveProof(ctx context.Context, proof *domain.SavedVerification) error
	// GetProofByHash returns the proof holding the given token or
	// ErrProofNotFound. Expiry is not evaluated here; callers compare against
	// their own notion of now.
	GetProofByHash(ctx context.Context, hash string) (*domain.SavedVerification, error)
	// SaveResult stores the binding of a proof to a contact channel
	SaveResult(ctx context.Context, result *domain.VerificationResult) error
	// GetResultByID returns a channel binding or ErrProofNotFound
	GetResultByID(ctx context.Context, id uuid.UUID) (*domain.VerificationResult, error)
	// GetLatestResult returns the most recent binding for the channel and
	// identifier still valid at now, or ErrProofNotFound.
	GetLatestResult(ctx context.Context, saveMethod domain.SaveMethod, identifier string, now time.Time) (*domain.VerificationResult, error)
}
