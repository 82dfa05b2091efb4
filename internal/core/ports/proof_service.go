package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

// IssuedProof is the result of saving a verification for reuse
type IssuedProof struct {
	Token      string
	SaveMethod domain.SaveMethod
	ExpiresAt  time.Time
}

// TokenCheck is the result of a direct proof token lookup
type TokenCheck struct {
	Verified  bool
	Method    domain.SaveMethod
	ExpiresAt time.Time
}

// ReverifyStart is the result of initiating a channel re-verification
type ReverifyStart struct {
	NeedsCode     bool
	Channel       domain.SaveMethod
	CodeExpiresAt time.Time
}

// ProofService issues reusable proofs and redeems them
type ProofService interface {
	// Issue mints a proof token for a successfully completed session and
	// binds it to the given save channel.
	Issue(ctx context.Context, sessionID uuid.UUID, saveMethod domain.SaveMethod, contactInfo string) (*IssuedProof, error)
	// CheckToken looks up a proof by its bearer token. Only an audit entry is
	// written; the proof is not consumed.
	CheckToken(ctx context.Context, token string) (*TokenCheck, error)
	// InitiateReverify starts the channel re-proof flow on a pending
	// reverification session, dispatching a one-time code when the channel
	// requires one.
	InitiateReverify(ctx context.Context, sessionID uuid.UUID, channel domain.SaveMethod, identifier string) (*ReverifyStart, error)
	// VerifyCode checks the one-time code and, on match, completes the
	// session and mints a fresh short-lived proof.
	VerifyCode(ctx context.Context, sessionID uuid.UUID, channel domain.SaveMethod, identifier, code string) (*IssuedProof, error)
}
