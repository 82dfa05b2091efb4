package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

// WalletRepository is the storage of company wallets and their ledger
type WalletRepository interface {
	// GetBalance returns the wallet balance of the company or
	// ErrCompanyNotFound
	GetBalance(ctx context.Context, companyID uuid.UUID) (float64, error)
	// Debit decrements the wallet balance by amount. The decrement is a single
	// conditional update that fails with ErrInsufficientBalance when the
	// balance is lower than amount.
	Debit(ctx context.Context, companyID uuid.UUID, amount float64) error
	// Credit increments the wallet balance by amount
	Credit(ctx context.Context, companyID uuid.UUID, amount float64) error
	// SaveTransaction appends a ledger entry
	SaveTransaction(ctx context.Context, tx *domain.WalletTransaction) error
	// CountByVerification returns how many ledger entries reference the
	// verification
	CountByVerification(ctx context.Context, verificationID uuid.UUID) (int, error)
}
