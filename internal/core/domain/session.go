package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionTTL is how long a verification session stays usable after creation
const SessionTTL = time.Hour

// SessionStatus is the persisted state of a verification session
type SessionStatus string

// Persisted session states. StatusExpired is derived, never written to storage:
// a pending session whose expires_at is in the past is reported as expired.
const (
	StatusPending   SessionStatus = "pending"
	StatusCompleted SessionStatus = "completed"
	StatusFailed    SessionStatus = "failed"
	StatusExpired   SessionStatus = "expired"
)

// VerificationResultStatus is the outcome of a finished verification
type VerificationResultStatus string

// Verification outcomes
const (
	ResultSuccess VerificationResultStatus = "success"
	ResultFailure VerificationResultStatus = "failure"
)

// VerificationSession is one bounded attempt to verify age via a specific
// method. It is created pending and moves exactly once to completed or failed.
type VerificationSession struct {
	ID          uuid.UUID
	ShopID      uuid.UUID
	Method      Method
	Status      SessionStatus
	Result      *VerificationResultStatus
	Details     map[string]any
	IPAddress   string
	UserAgent   string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	CompletedAt *time.Time
}

// NewVerificationSession returns a pending session for the given shop and method
func NewVerificationSession(shopID uuid.UUID, method Method, details map[string]any, ip, userAgent string) *VerificationSession {
	if details == nil {
		details = map[string]any{}
	}
	now := time.Now()
	return &VerificationSession{
		ID:        uuid.New(),
		ShopID:    shopID,
		Method:    method,
		Status:    StatusPending,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
}

// IsExpired tells whether the session usability window has passed at now
func (s *VerificationSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// EffectiveStatus returns the status as observed at now. A pending session past
// its expiry reads as expired without mutating the stored row.
func (s *VerificationSession) EffectiveStatus(now time.Time) SessionStatus {
	if s.Status == StatusPending && s.IsExpired(now) {
		return StatusExpired
	}
	return s.Status
}
