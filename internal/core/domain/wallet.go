package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionTypeVerification marks a debit for one verification
const TransactionTypeVerification = "verification"

// TransactionStatusCompleted marks a settled wallet transaction
const TransactionStatusCompleted = "completed"

// WalletTransaction is one wallet ledger entry. A debit carries a negative
// amount.
type WalletTransaction struct {
	ID                uuid.UUID
	CompanyID         uuid.UUID
	Type              string
	Amount            float64
	Description       string
	Status            string
	TransactionNumber string
	Metadata          map[string]any
	CreatedAt         time.Time
}

// NewVerificationDebit returns the ledger entry that charges amount for the
// given verification.
func NewVerificationDebit(companyID uuid.UUID, amount float64, transactionNumber string, verificationID uuid.UUID, method Method) *WalletTransaction {
	return &WalletTransaction{
		ID:                uuid.New(),
		CompanyID:         companyID,
		Type:              TransactionTypeVerification,
		Amount:            -amount,
		Description:       "Verification charge for method " + string(method),
		Status:            TransactionStatusCompleted,
		TransactionNumber: transactionNumber,
		Metadata: map[string]any{
			"verificationId": verificationID.String(),
			"method":         string(method),
		},
		CreatedAt: time.Now(),
	}
}
