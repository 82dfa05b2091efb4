package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/db"
)

// auditLog repository. Insert only; there is no update or delete statement on
// purpose.
type auditLog struct {
	conn db.Storage
}

// NewAuditLog creates a new audit log repository
func NewAuditLog(conn db.Storage) ports.AuditLogRepository {
	return &auditLog{conn}
}

// Save appends an audit entry
func (r *auditLog) Save(ctx context.Context, entry *domain.VerificationLog) error {
	const query = `
INSERT
INTO verification_logs (session_id, event_type, details, created_at)
VALUES ($1, $2, $3, $4);`

	details, err := jsonbFromMap(entry.Details)
	if err != nil {
		return err
	}
	_, err = r.conn.Pgx.Exec(ctx, query, entry.SessionID, string(entry.EventType), details, entry.CreatedAt)
	return err
}

// GetBySession returns the audit entries of a session in insertion order
func (r *auditLog) GetBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.VerificationLog, error) {
	const query = `
SELECT id, session_id, event_type, details, created_at
FROM verification_logs
WHERE session_id = $1
ORDER BY id;`

	rows, err := r.conn.Pgx.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.VerificationLog
	for rows.Next() {
		var entry domain.VerificationLog
		var eventType string
		var details pgtype.JSONB
		if err := rows.Scan(&entry.ID, &entry.SessionID, &eventType, &details, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.EventType = domain.AuditEventType(eventType)
		if entry.Details, err = mapFromJSONB(details); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
