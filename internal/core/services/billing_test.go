package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/services"
	"github.com/passprove/verification-node/internal/repositories"
)

func TestBillingCharge(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	verificationID := uuid.New()

	t.Run("debits the wallet and records one ledger entry", func(t *testing.T) {
		wallets := repositories.NewWalletInMemory()
		wallets.SetBalance(companyID, 50)
		svc := services.NewBilling(wallets)

		err := svc.Charge(ctx, companyID, 10, verificationID, domain.MethodBankID)
		require.NoError(t, err)

		balance, err := wallets.GetBalance(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, 40.0, balance)

		txs := wallets.Transactions()
		require.Len(t, txs, 1)
		assert.Equal(t, -10.0, txs[0].Amount)
		assert.Equal(t, domain.TransactionTypeVerification, txs[0].Type)
		assert.Equal(t, verificationID.String(), txs[0].Metadata["verificationId"])
		assert.Regexp(t, `^TR-\d+-\d{4}$`, txs[0].TransactionNumber)
	})

	t.Run("rejects a charge the balance cannot cover", func(t *testing.T) {
		wallets := repositories.NewWalletInMemory()
		wallets.SetBalance(companyID, 5)
		svc := services.NewBilling(wallets)

		err := svc.Charge(ctx, companyID, 10, verificationID, domain.MethodBankID)
		assert.ErrorIs(t, err, repositories.ErrInsufficientBalance)
		balance, err := wallets.GetBalance(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, balance)
	})

	t.Run("compensates the debit when the ledger write fails", func(t *testing.T) {
		wallets := repositories.NewWalletInMemory()
		wallets.SetBalance(companyID, 50)
		wallets.FailSaveTransaction = errors.New("ledger unavailable")
		svc := services.NewBilling(wallets)

		err := svc.Charge(ctx, companyID, 10, verificationID, domain.MethodBankID)
		require.Error(t, err)

		// the compensating credit restored the balance
		balance, err := wallets.GetBalance(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, 50.0, balance)
		assert.Empty(t, wallets.Transactions())
	})

	t.Run("escalates when the compensation fails too", func(t *testing.T) {
		wallets := repositories.NewWalletInMemory()
		wallets.SetBalance(companyID, 50)
		wallets.FailSaveTransaction = errors.New("ledger unavailable")
		wallets.FailCredit = errors.New("wallet unavailable")
		svc := services.NewBilling(wallets)

		err := svc.Charge(ctx, companyID, 10, verificationID, domain.MethodBankID)
		require.Error(t, err)

		var recErr *services.ReconciliationError
		require.ErrorAs(t, err, &recErr)
		assert.Equal(t, companyID, recErr.CompanyID)
		assert.Equal(t, 10.0, recErr.Amount)

		// the debit stuck; the error is the operator's signal to reconcile
		balance, err := wallets.GetBalance(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, 40.0, balance)
	})

	t.Run("unknown company", func(t *testing.T) {
		wallets := repositories.NewWalletInMemory()
		svc := services.NewBilling(wallets)

		err := svc.Charge(ctx, uuid.New(), 10, verificationID, domain.MethodBankID)
		assert.ErrorIs(t, err, repositories.ErrCompanyNotFound)
	})
}
