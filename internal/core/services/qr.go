package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/cache"
	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/log"
	"github.com/passprove/verification-node/internal/repositories"
)

// QRChallengeTTL is how long a generated QR challenge stays scannable
const QRChallengeTTL = 5 * time.Minute

const qrCachePrefix = "passprove:qr-challenge:"

type qr struct {
	sessionRepository  ports.SessionRepository
	auditLogRepository ports.AuditLogRepository
	cache              cache.Cache
	verifyBaseURL      string
}

// NewQR returns the cross-device QR challenge service. verifyBaseURL is the
// public url of the verification frontend the challenge links into.
func NewQR(sessionRepository ports.SessionRepository, auditLogRepository ports.AuditLogRepository, c cache.Cache, verifyBaseURL string) ports.QRService {
	return &qr{
		sessionRepository:  sessionRepository,
		auditLogRepository: auditLogRepository,
		cache:              c,
		verifyBaseURL:      strings.TrimSuffix(verifyBaseURL, "/"),
	}
}

// GenerateChallenge mints an unguessable token for a pending qrcode session.
// Calling it again replaces the previous challenge, so an expired QR can be
// refreshed without a new session.
func (q *qr) GenerateChallenge(ctx context.Context, sessionID uuid.UUID) (*ports.QRChallenge, error) {
	sess, err := q.sessionRepository.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if sess.Status != domain.StatusPending {
		return nil, repositories.ErrSessionNotPending
	}
	if sess.IsExpired(now) {
		return nil, ErrSessionExpired
	}
	if sess.Method != domain.MethodQRCode {
		return nil, ErrMethodMismatch
	}

	// a re-issue invalidates the previous challenge
	var prev domain.QRChallengeDetails
	if err := domain.DecodeDetails(sess.Details, &prev); err == nil && prev.QRToken != "" {
		if err := q.cache.Delete(ctx, qrCachePrefix+prev.QRToken); err != nil {
			log.Warn(ctx, "dropping previous qr challenge", "sessionID", sessionID)
		}
	}

	token := uuid.NewString()
	details, err := domain.EncodeDetails(domain.QRChallengeDetails{QRToken: token, GeneratedAt: now})
	if err != nil {
		return nil, err
	}
	if err := q.sessionRepository.UpdateDetails(ctx, sessionID, details); err != nil {
		return nil, err
	}
	if err := q.cache.Set(ctx, qrCachePrefix+token, sessionID.String(), QRChallengeTTL); err != nil {
		log.Error(ctx, "caching qr challenge", err, "sessionID", sessionID)
		return nil, err
	}

	q.audit(ctx, sessionID, map[string]any{"tokenPrefix": tokenPrefix(token)})
	log.Info(ctx, "qr challenge generated", "sessionID", sessionID)
	return &ports.QRChallenge{
		ChallengeURL: q.verifyBaseURL + "/qr/" + token,
		Token:        token,
		ExpiresIn:    int(QRChallengeTTL.Seconds()),
	}, nil
}

// Resolve maps a scanned challenge token back to its session. The cache entry
// carries the challenge ttl, so expired challenges simply miss.
func (q *qr) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	var sessionID string
	if found := q.cache.Get(ctx, qrCachePrefix+token, &sessionID); !found {
		return uuid.Nil, ErrQRChallengeNotFound
	}
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return uuid.Nil, ErrQRChallengeNotFound
	}
	return id, nil
}

func (q *qr) audit(ctx context.Context, sessionID uuid.UUID, details map[string]any) {
	entry := domain.NewVerificationLog(&sessionID, domain.EventQRCodeGenerated, details)
	if err := q.auditLogRepository.Save(ctx, entry); err != nil {
		log.Error(ctx, "saving audit entry", err, "sessionID", sessionID)
	}
}
