package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/log"
	"github.com/passprove/verification-node/internal/repositories"
	"github.com/passprove/verification-node/pkg/rand"
)

const (
	// codeTTL is how long a dispatched one-time code stays redeemable
	codeTTL = 15 * time.Minute
	// maxCodeAttempts caps wrong code submissions per dispatched code
	maxCodeAttempts = 5
	codeDigits      = 6
	randomSaltBytes = 16
)

type proof struct {
	sessionRepository      ports.SessionRepository
	verificationRepository ports.VerificationRepository
	proofRepository        ports.ProofRepository
	shopRepository         ports.ShopRepository
	auditLogRepository     ports.AuditLogRepository
	billingService         ports.BillingService
	codeSender             ports.CodeSender
}

// NewProof returns the reusable proof service
func NewProof(
	sessionRepository ports.SessionRepository,
	verificationRepository ports.VerificationRepository,
	proofRepository ports.ProofRepository,
	shopRepository ports.ShopRepository,
	auditLogRepository ports.AuditLogRepository,
	billingService ports.BillingService,
	codeSender ports.CodeSender,
) ports.ProofService {
	return &proof{
		sessionRepository:      sessionRepository,
		verificationRepository: verificationRepository,
		proofRepository:        proofRepository,
		shopRepository:         shopRepository,
		auditLogRepository:     auditLogRepository,
		billingService:         billingService,
		codeSender:             codeSender,
	}
}

// Issue mints a bearer token for a successfully completed session and binds
// it to the given save channel. The token is derived from the session, the
// channel and fresh randomness, so it is unguessable and never collides in
// practice.
func (p *proof) Issue(ctx context.Context, sessionID uuid.UUID, saveMethod domain.SaveMethod, contactInfo string) (*ports.IssuedProof, error) {
	sess, err := p.sessionRepository.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != domain.StatusCompleted || sess.Result == nil || *sess.Result != domain.ResultSuccess {
		return nil, ErrSessionNotSuccessful
	}
	verification, err := p.verificationRepository.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	token, err := mintToken(sessionID, string(saveMethod), contactInfo)
	if err != nil {
		return nil, err
	}
	saved := domain.NewSavedVerification(token, saveMethod, domain.ProofTTL)
	if err := p.proofRepository.SaveProof(ctx, saved); err != nil {
		log.Error(ctx, "saving proof", err, "sessionID", sessionID)
		return nil, err
	}

	identifier := contactInfo
	if identifier == "" {
		// Cookie proofs have no contact identifier; the token itself is the
		// lookup key.
		identifier = token
	}
	result := &domain.VerificationResult{
		ID:             uuid.New(),
		VerificationID: verification.ID,
		SaveMethod:     saveMethod,
		Identifier:     identifier,
		ValidUntil:     saved.ExpiresAt,
		Metadata: map[string]any{
			"saveMethod": string(saveMethod),
			"savedAt":    time.Now().Format(time.RFC3339Nano),
		},
	}
	if err := p.proofRepository.SaveResult(ctx, result); err != nil {
		log.Error(ctx, "saving proof channel binding", err, "sessionID", sessionID)
		return nil, err
	}

	p.audit(ctx, &sessionID, domain.EventVerificationSaved, map[string]any{
		"saveMethod":  string(saveMethod),
		"tokenPrefix": tokenPrefix(token),
	})
	log.Info(ctx, "proof issued", "sessionID", sessionID, "saveMethod", saveMethod, "validUntil", saved.ExpiresAt)
	return &ports.IssuedProof{Token: token, SaveMethod: saveMethod, ExpiresAt: saved.ExpiresAt}, nil
}

// CheckToken looks up a proof by its bearer token. Expired proofs read as not
// found; the proof itself is not consumed.
func (p *proof) CheckToken(ctx context.Context, token string) (*ports.TokenCheck, error) {
	saved, err := p.proofRepository.GetProofByHash(ctx, token)
	if err != nil {
		return nil, err
	}
	if !saved.IsValid(time.Now()) {
		return nil, repositories.ErrProofNotFound
	}
	p.audit(ctx, nil, domain.EventSessionCheck, map[string]any{
		"tokenPrefix": tokenPrefix(token),
		"saveMethod":  string(saved.Method),
	})
	return &ports.TokenCheck{Verified: true, Method: saved.Method, ExpiresAt: saved.ExpiresAt}, nil
}

// InitiateReverify starts the channel re-proof flow on a pending
// reverification session. Cookie channels need no code; phone and email get a
// fresh one-time code dispatched to the identifier, provided a still valid
// prior proof exists for that channel and identifier.
func (p *proof) InitiateReverify(ctx context.Context, sessionID uuid.UUID, channel domain.SaveMethod, identifier string) (*ports.ReverifyStart, error) {
	sess, err := p.sessionRepository.GetByID(ctx, sessionID)
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
	if sess.Method != domain.MethodReverification {
		return nil, ErrMethodMismatch
	}

	if channel == domain.SaveMethodCookie {
		// The cookie proof travels with the request; the caller redeems it
		// directly via the token check.
		p.audit(ctx, &sessionID, domain.EventReverificationInitiated, map[string]any{"channel": string(channel)})
		return &ports.ReverifyStart{NeedsCode: false, Channel: channel}, nil
	}
	if channel != domain.SaveMethodPhone && channel != domain.SaveMethodEmail {
		return nil, ErrChannelNotSupported
	}

	result, err := p.proofRepository.GetLatestResult(ctx, channel, identifier, now)
	if err != nil {
		if errors.Is(err, repositories.ErrProofNotFound) {
			return nil, ErrNoPriorProofForChannel
		}
		return nil, err
	}

	code, err := rand.NumericCode(codeDigits)
	if err != nil {
		return nil, fmt.Errorf("could not generate verification code: %w", err)
	}
	details, err := domain.EncodeDetails(domain.ReverifyDetails{
		Method:              string(channel),
		Identifier:          identifier,
		VerificationCode:    code,
		CodeGeneratedAt:     now,
		SavedVerificationID: result.ID.String(),
		Attempts:            0,
	})
	if err != nil {
		return nil, err
	}
	if err := p.sessionRepository.UpdateDetails(ctx, sessionID, details); err != nil {
		return nil, err
	}
	if err := p.codeSender.SendCode(ctx, channel, identifier, code); err != nil {
		log.Error(ctx, "dispatching verification code", err, "sessionID", sessionID, "channel", channel)
		return nil, fmt.Errorf("could not send verification code: %w", err)
	}

	p.audit(ctx, &sessionID, domain.EventReverificationInitiated, map[string]any{
		"channel":   string(channel),
		"needsCode": true,
	})
	log.Info(ctx, "re-verification code dispatched", "sessionID", sessionID, "channel", channel)
	return &ports.ReverifyStart{NeedsCode: true, Channel: channel, CodeExpiresAt: now.Add(codeTTL)}, nil
}

// VerifyCode checks the dispatched one-time code. On match the session is
// completed, the wallet charged and a fresh short-lived proof minted for the
// channel.
func (p *proof) VerifyCode(ctx context.Context, sessionID uuid.UUID, channel domain.SaveMethod, identifier, code string) (*ports.IssuedProof, error) {
	sess, err := p.sessionRepository.GetByID(ctx, sessionID)
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

	var details domain.ReverifyDetails
	if err := domain.DecodeDetails(sess.Details, &details); err != nil {
		return nil, ErrInvalidReverifyState
	}
	if details.VerificationCode == "" || details.Method != string(channel) || details.Identifier != identifier {
		return nil, ErrInvalidReverifyState
	}
	if now.Sub(details.CodeGeneratedAt) > codeTTL {
		return nil, ErrCodeExpired
	}
	if details.Attempts >= maxCodeAttempts {
		return nil, ErrTooManyAttempts
	}
	if details.VerificationCode != code {
		details.Attempts++
		if raw, encErr := domain.EncodeDetails(details); encErr == nil {
			if updErr := p.sessionRepository.UpdateDetails(ctx, sessionID, raw); updErr != nil {
				log.Error(ctx, "recording failed code attempt", updErr, "sessionID", sessionID)
			}
		}
		if details.Attempts >= maxCodeAttempts {
			return nil, ErrTooManyAttempts
		}
		return nil, ErrCodeMismatch
	}

	savedID, err := uuid.Parse(details.SavedVerificationID)
	if err != nil {
		return nil, ErrInvalidReverifyState
	}
	original, err := p.proofRepository.GetResultByID(ctx, savedID)
	if err != nil {
		return nil, err
	}

	finalDetails := map[string]any{
		"method":                 string(domain.MethodReverification),
		"channel":                string(channel),
		"identifier":             identifier,
		"codeVerified":           true,
		"originalVerificationId": original.VerificationID.String(),
		"verifiedAt":             now.Format(time.RFC3339Nano),
	}
	// Win the terminal transition before minting anything; a writer that
	// loses the race must not leave a redeemable proof behind.
	if err := p.sessionRepository.FinishWithVerification(ctx, sessionID, domain.StatusCompleted, domain.ResultSuccess, finalDetails, now); err != nil {
		return nil, err
	}

	token, err := mintToken(sessionID, string(channel), identifier)
	if err != nil {
		return nil, err
	}
	saved := domain.NewSavedVerification(token, channel, domain.ReverifyProofTTL)
	if err := p.proofRepository.SaveProof(ctx, saved); err != nil {
		log.Error(ctx, "saving re-verification proof", err, "sessionID", sessionID)
		return nil, err
	}

	if err := p.chargeForSession(ctx, sess, sessionID); err != nil {
		return nil, err
	}

	p.audit(ctx, &sessionID, domain.EventReverificationSuccess, map[string]any{
		"channel":     string(channel),
		"tokenPrefix": tokenPrefix(token),
	})
	log.Info(ctx, "re-verification completed", "sessionID", sessionID, "channel", channel)
	return &ports.IssuedProof{Token: token, SaveMethod: channel, ExpiresAt: saved.ExpiresAt}, nil
}

func (p *proof) chargeForSession(ctx context.Context, sess *domain.VerificationSession, sessionID uuid.UUID) error {
	verification, err := p.verificationRepository.GetBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	shop, err := p.shopRepository.GetByID(ctx, sess.ShopID)
	if err != nil {
		return err
	}
	if err := p.billingService.Charge(ctx, shop.CompanyID, verification.Price, verification.ID, verification.Method); err != nil {
		p.audit(ctx, &sessionID, domain.EventBillingFailed, map[string]any{
			"method": string(verification.Method), "amount": verification.Price, "error": err.Error(),
		})
		return err
	}
	return nil
}

func (p *proof) audit(ctx context.Context, sessionID *uuid.UUID, eventType domain.AuditEventType, details map[string]any) {
	entry := domain.NewVerificationLog(sessionID, eventType, details)
	if err := p.auditLogRepository.Save(ctx, entry); err != nil {
		log.Error(ctx, "saving audit entry", err, "eventType", eventType)
	}
}

// mintToken derives an opaque bearer token from the session, the channel and
// fresh randomness.
func mintToken(sessionID uuid.UUID, method, identifier string) (string, error) {
	salt, err := rand.Bytes(randomSaltBytes)
	if err != nil {
		return "", fmt.Errorf("could not generate token salt: %w", err)
	}
	payload := strings.Join([]string{
		sessionID.String(),
		method,
		identifier,
		strconv.FormatInt(time.Now().UnixNano(), 10),
		hex.EncodeToString(salt),
	}, "_")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:]), nil
}

// tokenPrefix is the only fragment of a bearer token allowed in logs and
// audit details.
func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
