package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

// VerificationRepository is the storage of verification billing records
type VerificationRepository interface {
	// GetByID returns the verification or ErrVerificationNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Verification, error)
	// GetBySessionID returns the verification paired with the session
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.Verification, error)
}
