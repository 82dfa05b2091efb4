package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

type auditLogInMemory struct {
	mu      sync.Mutex
	entries []domain.VerificationLog
}

// NewAuditLogInMemory returns an AuditLogRepository implemented in memory
// convenient for testing
func NewAuditLogInMemory() *auditLogInMemory {
	return &auditLogInMemory{}
}

func (r *auditLogInMemory) Save(_ context.Context, entry *domain.VerificationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *entry
	stored.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, stored)
	return nil
}

func (r *auditLogInMemory) GetBySession(_ context.Context, sessionID uuid.UUID) ([]domain.VerificationLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.VerificationLog
	for _, entry := range r.entries {
		if entry.SessionID != nil && *entry.SessionID == sessionID {
			out = append(out, entry)
		}
	}
	return out, nil
}
