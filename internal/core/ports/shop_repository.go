package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

// ShopRepository is the storage of shops and their owning companies
type ShopRepository interface {
	// GetByID returns the shop or ErrShopNotFound
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error)
}
