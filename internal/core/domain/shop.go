package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShopStatusActive marks a shop allowed to start verifications
const ShopStatusActive = "active"

// Company owns one or more shops and the wallet that pays for their
// verifications.
type Company struct {
	ID            uuid.UUID
	Name          string
	WalletBalance float64
	CreatedAt     time.Time
}

// Shop is an embedder of the verification widget
type Shop struct {
	ID          uuid.UUID
	CompanyID   uuid.UUID
	Name        string
	Status      string
	PricingPlan string
	Methods     []Method
	CreatedAt   time.Time
}

// SupportsMethod tells whether the shop has method in its configured set
func (s *Shop) SupportsMethod(method Method) bool {
	for _, m := range s.Methods {
		if m == method {
			return true
		}
	}
	return false
}
