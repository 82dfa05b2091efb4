package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEventType identifies one kind of audit trail entry
type AuditEventType string

// Audit event types
const (
	EventSessionCheck            AuditEventType = "session_check"
	EventVerificationSuccess     AuditEventType = "verification_success"
	EventVerificationFailed      AuditEventType = "verification_failed"
	EventVerificationSaved       AuditEventType = "verification_saved"
	EventQRCodeGenerated         AuditEventType = "qr_code_generated"
	EventReverificationInitiated AuditEventType = "reverification_initiated"
	EventReverificationSuccess   AuditEventType = "reverification_success"
	EventBillingFailed           AuditEventType = "billing_failed"
)

// VerificationLog is one append-only audit trail entry. SessionID is nil for
// hash-only proof checks that are not tied to a session.
type VerificationLog struct {
	ID        int64
	SessionID *uuid.UUID
	EventType AuditEventType
	Details   map[string]any
	CreatedAt time.Time
}

// NewVerificationLog builds an audit entry stamped with the current time.
func NewVerificationLog(sessionID *uuid.UUID, event AuditEventType, details map[string]any) *VerificationLog {
	return &VerificationLog{
		SessionID: sessionID,
		EventType: event,
		Details:   details,
		CreatedAt: time.Now(),
	}
}
