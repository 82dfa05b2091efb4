package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationRecordStatus is the billing record lifecycle state
type VerificationRecordStatus string

// Verification record states
const (
	VerificationPending   VerificationRecordStatus = "pending"
	VerificationCompleted VerificationRecordStatus = "completed"
)

// Verification is the billing twin of a VerificationSession. There is exactly
// one per session, created together with it, with the price frozen at
// creation time.
type Verification struct {
	ID          uuid.UUID
	ShopID      uuid.UUID
	SessionID   uuid.UUID
	Method      Method
	Price       float64
	Result      string
	Status      VerificationRecordStatus
	Metadata    map[string]any
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// NewVerification returns the pending billing record paired with sessionID
func NewVerification(shopID, sessionID uuid.UUID, method Method, price float64) *Verification {
	return &Verification{
		ID:        uuid.New(),
		ShopID:    shopID,
		SessionID: sessionID,
		Method:    method,
		Price:     price,
		Result:    "pending",
		Status:    VerificationPending,
		Metadata:  map[string]any{},
		CreatedAt: time.Now(),
	}
}
