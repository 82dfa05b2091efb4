package services_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/pricing"
	"github.com/passprove/verification-node/internal/repositories"
)

// fakeProvider answers every Verify call with a fixed outcome or error
type fakeProvider struct {
	outcome *ports.EvidenceOutcome
	err     error
}

func (f *fakeProvider) Verify(_ context.Context, _ map[string]any) (*ports.EvidenceOutcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

// fakeSender records dispatched codes instead of delivering them
type fakeSender struct {
	channel   domain.SaveMethod
	recipient string
	code      string
	err       error
}

func (f *fakeSender) SendCode(_ context.Context, channel domain.SaveMethod, recipient, code string) error {
	if f.err != nil {
		return f.err
	}
	f.channel = channel
	f.recipient = recipient
	f.code = code
	return nil
}

type sessionRepoMem interface {
	ports.SessionRepository
	Put(s domain.VerificationSession)
}

type walletRepoMem interface {
	ports.WalletRepository
	SetBalance(companyID uuid.UUID, balance float64)
	Transactions() []domain.WalletTransaction
}

type shopRepoMem interface {
	ports.ShopRepository
	Put(s domain.Shop)
}

type auditRepoMem interface {
	ports.AuditLogRepository
}

type proofRepoMem interface {
	ports.ProofRepository
	ProofCount() int
}

// fixture wires the in-memory repositories with one active shop holding a
// funded wallet.
type fixture struct {
	companyID uuid.UUID
	shopID    uuid.UUID

	sessions      sessionRepoMem
	verifications ports.VerificationRepository
	shops         shopRepoMem
	wallets       walletRepoMem
	proofs        proofRepoMem
	audit         auditRepoMem
}

func newFixture(balance float64, methods ...domain.Method) *fixture {
	if len(methods) == 0 {
		methods = domain.Methods()
	}
	companyID := uuid.New()
	shopID := uuid.New()

	verifications := repositories.NewVerificationInMemory()
	sessions := repositories.NewSessionInMemory(verifications)
	shops := repositories.NewShopInMemory()
	wallets := repositories.NewWalletInMemory()
	proofs := repositories.NewProofInMemory()
	audit := repositories.NewAuditLogInMemory()

	shops.Put(domain.Shop{
		ID:          shopID,
		CompanyID:   companyID,
		Name:        "Test Shop",
		Status:      domain.ShopStatusActive,
		PricingPlan: pricing.DefaultPlan,
		Methods:     methods,
	})
	wallets.SetBalance(companyID, balance)

	return &fixture{
		companyID:     companyID,
		shopID:        shopID,
		sessions:      sessions,
		verifications: verifications,
		shops:         shops,
		wallets:       wallets,
		proofs:        proofs,
		audit:         audit,
	}
}

func (f *fixture) prices() pricing.Settings {
	return pricing.DefaultSettings()
}

func intPtr(v int) *int {
	return &v
}
