package domain

import (
	"time"

	"github.com/google/uuid"
)

// Proof validity windows. Proofs issued for a fresh verification last 180
// days; proofs minted by the channel re-verification flow last 30 days.
const (
	ProofTTL         = 180 * 24 * time.Hour
	ReverifyProofTTL = 30 * 24 * time.Hour
)

// SavedVerification is a reusable proof of a prior successful verification.
// The hash is an opaque bearer token: whoever presents it before expires_at is
// treated as verified. Redemption does not consume the proof.
type SavedVerification struct {
	ID        uuid.UUID
	Hash      string
	Method    SaveMethod
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSavedVerification returns a proof with the given token valid for ttl
func NewSavedVerification(hash string, method SaveMethod, ttl time.Duration) *SavedVerification {
	now := time.Now()
	return &SavedVerification{
		ID:        uuid.New(),
		Hash:      hash,
		Method:    method,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsValid tells whether the proof is usable at now
func (s *SavedVerification) IsValid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// VerificationResult binds a proof to a contact channel. It anchors the
// channel re-verification flow: "this phone/email previously passed a
// successful verification".
type VerificationResult struct {
	ID             uuid.UUID
	VerificationID uuid.UUID
	SaveMethod     SaveMethod
	Identifier     string
	ValidUntil     time.Time
	Metadata       map[string]any
	CreatedAt      time.Time
}
