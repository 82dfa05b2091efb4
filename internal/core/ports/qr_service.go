package ports

import (
	"context"

	"github.com/google/uuid"
)

// QRChallenge is a scannable handoff to a second device
type QRChallenge struct {
	ChallengeURL string
	Token        string
	ExpiresIn    int
}

// QRService generates and resolves cross-device QR challenges
type QRService interface {
	// GenerateChallenge mints an unguessable token for a pending qrcode
	// session and returns the challenge url embedding it. Re-issuing after
	// expiry replaces the previous challenge.
	GenerateChallenge(ctx context.Context, sessionID uuid.UUID) (*QRChallenge, error)
	// Resolve maps a scanned challenge token back to its session. Expired
	// challenges resolve to ErrQRChallengeNotFound.
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}
