package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

// SessionRepository is the storage of verification sessions and their paired
// billing records.
type SessionRepository interface {
	// CreateWithVerification inserts the session and its paired verification
	// record as one transaction. Either both rows exist afterwards or neither.
	CreateWithVerification(ctx context.Context, session *domain.VerificationSession, verification *domain.Verification) error
	// GetByID returns the session or ErrSessionNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationSession, error)
	// UpdateDetails replaces the working details of a still pending session
	UpdateDetails(ctx context.Context, id uuid.UUID, details map[string]any) error
	// FinishWithVerification moves the session from pending to the given
	// terminal status and records the outcome on its paired verification, as
	// one transaction. The session update is conditional; it returns
	// ErrSessionNotPending when another writer already finished the session,
	// and in that case neither row changes.
	FinishWithVerification(ctx context.Context, id uuid.UUID, status domain.SessionStatus, result domain.VerificationResultStatus, details map[string]any, completedAt time.Time) error
}
