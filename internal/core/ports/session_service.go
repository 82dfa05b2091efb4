package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

// ClientMeta carries the request metadata stored on a session at creation
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// CreatedSession is the result of a successful session creation
type CreatedSession struct {
	SessionID      uuid.UUID
	VerificationID uuid.UUID
	ExpiresAt      time.Time
	Price          float64
}

// VerificationOutcome is the result of an evidence submission
type VerificationOutcome struct {
	Verified bool
	Age      *int
	Provider string
}

// SessionStatusInfo is the read-only polling view of a session
type SessionStatusInfo struct {
	Status   domain.SessionStatus
	Verified *bool
}

// SessionService is the verification orchestrator. It is the single authority
// over session state transitions.
type SessionService interface {
	// Create validates the shop, method and wallet balance and inserts a
	// pending session with its paired verification record.
	Create(ctx context.Context, method domain.Method, shopID uuid.UUID, data map[string]any, meta ClientMeta) (*CreatedSession, error)
	// SubmitEvidence dispatches the evidence to the provider bound to method
	// and records the terminal outcome, charging the wallet on success.
	SubmitEvidence(ctx context.Context, sessionID uuid.UUID, method domain.Method, evidence map[string]any) (*VerificationOutcome, error)
	// CheckStatus reports the session state without mutating it. A pending
	// session past its expiry reads as expired.
	CheckStatus(ctx context.Context, sessionID uuid.UUID) (*SessionStatusInfo, error)
	// Prices returns the price of every method the shop has configured
	Prices(ctx context.Context, shopID uuid.UUID) (map[domain.Method]float64, error)
}
