package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/log"
	"github.com/passprove/verification-node/internal/repositories"
	"github.com/passprove/verification-node/pkg/rand"
)

type billing struct {
	walletRepository ports.WalletRepository
}

// NewBilling returns the wallet billing service
func NewBilling(walletRepository ports.WalletRepository) ports.BillingService {
	return &billing{walletRepository: walletRepository}
}

// Charge debits amount from the company wallet and appends the matching
// ledger entry. The debit itself is a conditional update, so a concurrent
// drain of the wallet fails here rather than driving the balance negative.
// When the ledger write fails the debit is compensated with a credit; a
// failed compensation is escalated as a ReconciliationError.
func (b *billing) Charge(ctx context.Context, companyID uuid.UUID, amount float64, verificationID uuid.UUID, method domain.Method) error {
	balance, err := b.walletRepository.GetBalance(ctx, companyID)
	if err != nil {
		log.Error(ctx, "loading wallet balance", err, "companyID", companyID)
		return err
	}
	if balance < amount {
		return repositories.ErrInsufficientBalance
	}

	if err := b.walletRepository.Debit(ctx, companyID, amount); err != nil {
		log.Error(ctx, "debiting wallet", err, "companyID", companyID, "amount", amount)
		return err
	}

	trNumber, err := rand.TransactionNumber()
	if err != nil {
		trNumber = "TR-" + verificationID.String()
	}
	entry := domain.NewVerificationDebit(companyID, amount, trNumber, verificationID, method)
	if err := b.walletRepository.SaveTransaction(ctx, entry); err != nil {
		log.Error(ctx, "saving wallet transaction, compensating debit", err, "companyID", companyID, "amount", amount)
		if creditErr := b.walletRepository.Credit(ctx, companyID, amount); creditErr != nil {
			log.Error(ctx, "compensating credit failed, wallet out of sync with ledger", creditErr, "companyID", companyID, "amount", amount)
			return &ReconciliationError{
				CompanyID:      companyID,
				VerificationID: verificationID,
				Amount:         amount,
				LedgerErr:      err,
				CreditErr:      creditErr,
			}
		}
		return fmt.Errorf("could not record wallet transaction: %w", err)
	}

	return nil
}
