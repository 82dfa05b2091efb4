package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrSessionExpired is returned when an operation observes a session past
	// its expiry window
	ErrSessionExpired = errors.New("verification session has expired")
	// ErrMethodMismatch is returned when evidence is submitted for a method
	// other than the one the session was created with
	ErrMethodMismatch = errors.New("invalid verification method for this session")
	// ErrMethodNotSupported is returned when the shop does not offer the
	// requested method or no provider is bound to it
	ErrMethodNotSupported = errors.New("verification method not supported")
	// ErrSessionNotSuccessful is returned when a proof is requested for a
	// session that did not complete with a success result
	ErrSessionNotSuccessful = errors.New("verification session is not successfully completed")
	// ErrChannelNotSupported is returned for re-verification channels that
	// cannot carry a one-time code
	ErrChannelNotSupported = errors.New("re-verification channel not supported")
	// ErrNoPriorProofForChannel is returned when no valid saved verification
	// exists for the channel and identifier
	ErrNoPriorProofForChannel = errors.New("no prior verification found for this channel")
	// ErrCodeExpired is returned when the one-time code is older than its
	// validity window
	ErrCodeExpired = errors.New("verification code has expired")
	// ErrCodeMismatch is returned when the submitted code does not match
	ErrCodeMismatch = errors.New("incorrect verification code")
	// ErrTooManyAttempts is returned when the code attempt cap is exceeded
	ErrTooManyAttempts = errors.New("too many verification code attempts")
	// ErrInvalidReverifyState is returned when the session details do not
	// match the submitted channel and identifier
	ErrInvalidReverifyState = errors.New("invalid re-verification state for this session")
	// ErrQRChallengeNotFound is returned when a QR challenge token is unknown
	// or expired
	ErrQRChallengeNotFound = errors.New("qr challenge not found")
)

// ReconciliationError signals that a wallet was debited, the ledger write
// failed and the compensating credit failed too. The wallet is out of sync
// with its ledger and needs operator intervention.
type ReconciliationError struct {
	CompanyID      uuid.UUID
	VerificationID uuid.UUID
	Amount         float64
	LedgerErr      error
	CreditErr      error
}

// Error satisfies the error interface for ReconciliationError
func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("wallet reconciliation required for company %s: debit of %.2f has no ledger entry (ledger: %v, compensation: %v)",
		e.CompanyID, e.Amount, e.LedgerErr, e.CreditErr)
}
