package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/log"
	"github.com/passprove/verification-node/internal/pricing"
	"github.com/passprove/verification-node/internal/repositories"
)

// AdultAge is the minimum age an age-asserting provider outcome must reach
// for the verification to count as a success.
const AdultAge = 18

type session struct {
	sessionRepository      ports.SessionRepository
	verificationRepository ports.VerificationRepository
	shopRepository         ports.ShopRepository
	auditLogRepository     ports.AuditLogRepository
	walletRepository       ports.WalletRepository
	billingService         ports.BillingService
	providers              ports.EvidenceProviderRegistry
	prices                 pricing.Settings
}

// NewSession returns the verification session orchestrator
func NewSession(
	sessionRepository ports.SessionRepository,
	verificationRepository ports.VerificationRepository,
	shopRepository ports.ShopRepository,
	auditLogRepository ports.AuditLogRepository,
	walletRepository ports.WalletRepository,
	billingService ports.BillingService,
	providers ports.EvidenceProviderRegistry,
	prices pricing.Settings,
) ports.SessionService {
	return &session{
		sessionRepository:      sessionRepository,
		verificationRepository: verificationRepository,
		shopRepository:         shopRepository,
		auditLogRepository:     auditLogRepository,
		walletRepository:       walletRepository,
		billingService:         billingService,
		providers:              providers,
		prices:                 prices,
	}
}

// Create validates the shop, the method and the wallet balance, then inserts
// the pending session together with its billing record in one transaction.
func (s *session) Create(ctx context.Context, method domain.Method, shopID uuid.UUID, data map[string]any, meta ports.ClientMeta) (*ports.CreatedSession, error) {
	shop, err := s.shopRepository.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.Status != domain.ShopStatusActive {
		log.Info(ctx, "rejecting session for inactive shop", "shopID", shopID)
		return nil, repositories.ErrShopNotFound
	}
	if !shop.SupportsMethod(method) {
		return nil, ErrMethodNotSupported
	}

	price, err := s.prices.Price(method, shop.PricingPlan)
	if err != nil {
		log.Error(ctx, "resolving verification price", err, "method", method, "plan", shop.PricingPlan)
		return nil, err
	}

	balance, err := s.walletRepository.GetBalance(ctx, shop.CompanyID)
	if err != nil {
		return nil, err
	}
	if balance < price {
		return nil, repositories.ErrInsufficientBalance
	}

	sess := domain.NewVerificationSession(shopID, method, data, meta.IPAddress, meta.UserAgent)
	verification := domain.NewVerification(shopID, sess.ID, method, price)
	if err := s.sessionRepository.CreateWithVerification(ctx, sess, verification); err != nil {
		log.Error(ctx, "creating verification session", err, "shopID", shopID, "method", method)
		return nil, err
	}

	log.Info(ctx, "verification session created", "sessionID", sess.ID, "method", method, "shopID", shopID)
	return &ports.CreatedSession{
		SessionID:      sess.ID,
		VerificationID: verification.ID,
		ExpiresAt:      sess.ExpiresAt,
		Price:          price,
	}, nil
}

// SubmitEvidence runs the evidence through the provider bound to method and
// records the terminal outcome. The transition to completed or failed happens
// exactly once; the wallet is charged only after this writer won the
// transition for a successful outcome.
func (s *session) SubmitEvidence(ctx context.Context, sessionID uuid.UUID, method domain.Method, evidence map[string]any) (*ports.VerificationOutcome, error) {
	sess, err := s.sessionRepository.GetByID(ctx, sessionID)
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
	if sess.Method != method {
		return nil, ErrMethodMismatch
	}
	provider, ok := s.providers[method]
	if !ok {
		return nil, ErrMethodNotSupported
	}

	outcome, provErr := provider.Verify(ctx, evidence)
	var (
		verified bool
		details  map[string]any
		out      ports.VerificationOutcome
	)
	if provErr != nil {
		// A provider failure is a failed verification, never a retry. The
		// customer is charged nothing and the session is closed.
		log.Error(ctx, "evidence provider failed", provErr, "sessionID", sessionID, "method", method)
		details = map[string]any{"provider": string(method), "error": provErr.Error()}
		out = ports.VerificationOutcome{Verified: false, Provider: string(method)}
	} else {
		verified = outcome.Verified && (outcome.Age == nil || *outcome.Age >= AdultAge)
		details = outcome.Metadata
		if details == nil {
			details = map[string]any{}
		}
		details["provider"] = outcome.Provider
		if outcome.Age != nil {
			details["age"] = *outcome.Age
		}
		out = ports.VerificationOutcome{Verified: verified, Age: outcome.Age, Provider: outcome.Provider}
	}

	result := domain.ResultFailure
	status := domain.StatusFailed
	if verified {
		result = domain.ResultSuccess
		status = domain.StatusCompleted
	} else if provErr == nil {
		// The provider answered; a negative answer is still a completed
		// session, only an unusable provider marks it failed.
		status = domain.StatusCompleted
	}

	if err := s.sessionRepository.FinishWithVerification(ctx, sessionID, status, result, details, now); err != nil {
		return nil, err
	}

	eventType := domain.EventVerificationFailed
	if verified {
		eventType = domain.EventVerificationSuccess
	}
	s.audit(ctx, sessionID, eventType, map[string]any{"method": string(method), "verified": verified})

	if verified {
		if err := s.chargeForSession(ctx, sess, sessionID, method); err != nil {
			return nil, err
		}
	}

	log.Info(ctx, "evidence processed", "sessionID", sessionID, "method", method, "verified", verified)
	return &out, nil
}

func (s *session) chargeForSession(ctx context.Context, sess *domain.VerificationSession, sessionID uuid.UUID, method domain.Method) error {
	verification, err := s.verificationRepository.GetBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	shop, err := s.shopRepository.GetByID(ctx, sess.ShopID)
	if err != nil {
		return err
	}
	if err := s.billingService.Charge(ctx, shop.CompanyID, verification.Price, verification.ID, method); err != nil {
		s.audit(ctx, sessionID, domain.EventBillingFailed, map[string]any{
			"method": string(method), "amount": verification.Price, "error": err.Error(),
		})
		return err
	}
	return nil
}

// CheckStatus reports the session state without mutating it. A pending
// session past its expiry reads as expired; the stored row stays pending.
func (s *session) CheckStatus(ctx context.Context, sessionID uuid.UUID) (*ports.SessionStatusInfo, error) {
	sess, err := s.sessionRepository.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	status := sess.EffectiveStatus(time.Now())
	info := ports.SessionStatusInfo{Status: status}
	if status == domain.StatusCompleted && sess.Result != nil {
		verified := *sess.Result == domain.ResultSuccess
		info.Verified = &verified
		if verified {
			s.audit(ctx, sessionID, domain.EventSessionCheck, map[string]any{"status": string(status)})
		}
	}
	return &info, nil
}

// Prices returns the price of every method the shop has configured. A method
// without a configured price is reported at zero rather than failing the
// whole listing.
func (s *session) Prices(ctx context.Context, shopID uuid.UUID) (map[domain.Method]float64, error) {
	shop, err := s.shopRepository.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop.Status != domain.ShopStatusActive {
		return nil, repositories.ErrShopNotFound
	}
	out := make(map[domain.Method]float64, len(shop.Methods))
	for _, method := range shop.Methods {
		price, err := s.prices.Price(method, shop.PricingPlan)
		if err != nil {
			log.Warn(ctx, "method without configured price", "method", method, "plan", shop.PricingPlan)
			price = 0
		}
		out[method] = price
	}
	return out, nil
}

func (s *session) audit(ctx context.Context, sessionID uuid.UUID, eventType domain.AuditEventType, details map[string]any) {
	entry := domain.NewVerificationLog(&sessionID, eventType, details)
	if err := s.auditLogRepository.Save(ctx, entry); err != nil {
		log.Error(ctx, "saving audit entry", err, "sessionID", sessionID, "eventType", eventType)
	}
}
