package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

// AuditLogRepository is the append-only audit trail. Entries are never
// mutated or deleted.
type AuditLogRepository interface {
	// Save appends an audit entry
	Save(ctx context.Context, entry *domain.VerificationLog) error
	// GetBySession returns the audit entries of a session in insertion order
	GetBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.VerificationLog, error)
}
