package repositories

import "errors"

var (
	// ErrSessionNotFound is returned when a verification session is not found
	ErrSessionNotFound = errors.New("verification session not found")
	// ErrSessionNotPending is returned when a conditional update expected a
	// pending session and found none
	ErrSessionNotPending = errors.New("verification session is not pending")
	// ErrVerificationNotFound is returned when a verification record is not found
	ErrVerificationNotFound = errors.New("verification not found")
	// ErrShopNotFound is returned when a shop does not exist or is inactive
	ErrShopNotFound = errors.New("shop not found")
	// ErrCompanyNotFound is returned when a company wallet does not exist
	ErrCompanyNotFound = errors.New("company not found")
	// ErrInsufficientBalance is returned when a debit would take the wallet
	// below zero
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	// ErrProofNotFound is returned when a saved verification or its channel
	// binding is not found
	ErrProofNotFound = errors.New("saved verification not found")
)
