package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

// BillingService coordinates wallet debits with their ledger entries
type BillingService interface {
	// Charge re-checks the balance, debits amount and appends the matching
	// ledger entry. A ledger write failure is compensated with a credit before
	// returning; a failed compensation surfaces as a ReconciliationError.
	Charge(ctx context.Context, companyID uuid.UUID, amount float64, verificationID uuid.UUID, method domain.Method) error
}
