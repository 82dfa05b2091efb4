package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

type walletInMemory struct {
	mu           sync.Mutex
	balances     map[uuid.UUID]float64
	transactions []domain.WalletTransaction

	// FailSaveTransaction makes SaveTransaction fail, to exercise the billing
	// compensation path in tests.
	FailSaveTransaction error
	// FailCredit makes Credit fail, to exercise the reconciliation path.
	FailCredit error
}

// NewWalletInMemory returns a WalletRepository implemented in memory
// convenient for testing
func NewWalletInMemory() *walletInMemory {
	return &walletInMemory{balances: make(map[uuid.UUID]float64)}
}

// SetBalance seeds the wallet of a company
func (r *walletInMemory) SetBalance(companyID uuid.UUID, balance float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[companyID] = balance
}

// Transactions returns a copy of the recorded ledger
func (r *walletInMemory) Transactions() []domain.WalletTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.WalletTransaction, len(r.transactions))
	copy(out, r.transactions)
	return out
}

func (r *walletInMemory) GetBalance(_ context.Context, companyID uuid.UUID) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, found := r.balances[companyID]
	if !found {
		return 0, ErrCompanyNotFound
	}
	return balance, nil
}

func (r *walletInMemory) Debit(_ context.Context, companyID uuid.UUID, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, found := r.balances[companyID]
	if !found || balance < amount {
		return ErrInsufficientBalance
	}
	r.balances[companyID] = balance - amount
	return nil
}

func (r *walletInMemory) Credit(_ context.Context, companyID uuid.UUID, amount float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailCredit != nil {
		return r.FailCredit
	}
	if _, found := r.balances[companyID]; !found {
		return ErrCompanyNotFound
	}
	r.balances[companyID] += amount
	return nil
}

func (r *walletInMemory) SaveTransaction(_ context.Context, tx *domain.WalletTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSaveTransaction != nil {
		return r.FailSaveTransaction
	}
	r.transactions = append(r.transactions, *tx)
	return nil
}

func (r *walletInMemory) CountByVerification(_ context.Context, verificationID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, tx := range r.transactions {
		if tx.Metadata["verificationId"] == verificationID.String() {
			count++
		}
	}
	return count, nil
}
