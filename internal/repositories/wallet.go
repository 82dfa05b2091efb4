package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/db"
)

// wallet repository
type wallet struct {
	conn db.Storage
}

// NewWallet creates a new wallet repository
func NewWallet(conn db.Storage) ports.WalletRepository {
	return &wallet{conn}
}

// GetBalance returns the current wallet balance of a company
func (r *wallet) GetBalance(ctx context.Context, companyID uuid.UUID) (float64, error) {
	const query = `SELECT wallet_balance FROM companies WHERE id = $1;`

	var balance float64
	if err := r.conn.Pgx.QueryRow(ctx, query, companyID).Scan(&balance); err != nil {
		if strings.Contains(err.Error(), "no rows in result set") {
			return 0, ErrCompanyNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Debit decrements the wallet balance. The balance check is part of the
// update statement so two concurrent debits can never overdraw the wallet.
func (r *wallet) Debit(ctx context.Context, companyID uuid.UUID, amount float64) error {
	const query = `
UPDATE companies
SET wallet_balance = wallet_balance - $2
WHERE id = $1 AND wallet_balance >= $2;`

	cmd, err := r.conn.Pgx.Exec(ctx, query, companyID, amount)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// Credit increments the wallet balance
func (r *wallet) Credit(ctx context.Context, companyID uuid.UUID, amount float64) error {
	const query = `UPDATE companies SET wallet_balance = wallet_balance + $2 WHERE id = $1;`

	cmd, err := r.conn.Pgx.Exec(ctx, query, companyID, amount)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// SaveTransaction appends a ledger entry
func (r *wallet) SaveTransaction(ctx context.Context, tx *domain.WalletTransaction) error {
	const query = `
INSERT
INTO wallet_transactions (id, company_id, type, amount, description, status, transaction_number, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	metadata, err := jsonbFromMap(tx.Metadata)
	if err != nil {
		return err
	}
	_, err = r.conn.Pgx.Exec(ctx, query,
		tx.ID,
		tx.CompanyID,
		tx.Type,
		tx.Amount,
		tx.Description,
		tx.Status,
		tx.TransactionNumber,
		metadata,
		tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not insert wallet transaction: %w", err)
	}
	return nil
}

// CountByVerification returns how many ledger entries reference a verification
func (r *wallet) CountByVerification(ctx context.Context, verificationID uuid.UUID) (int, error) {
	const query = `SELECT COUNT(*) FROM wallet_transactions WHERE metadata->>'verificationId' = $1;`

	var count int
	if err := r.conn.Pgx.QueryRow(ctx, query, verificationID.String()).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
