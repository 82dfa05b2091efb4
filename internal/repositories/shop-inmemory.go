package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
)

type shopInMemory struct {
	mu    sync.Mutex
	shops map[uuid.UUID]domain.Shop
}

// NewShopInMemory returns a ShopRepository implemented in memory convenient
// for testing
func NewShopInMemory() *shopInMemory {
	return &shopInMemory{shops: make(map[uuid.UUID]domain.Shop)}
}

// Put stores a shop
func (r *shopInMemory) Put(s domain.Shop) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shops[s.ID] = s
}

func (r *shopInMemory) GetByID(_ context.Context, id uuid.UUID) (*domain.Shop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, found := r.shops[id]
	if !found {
		return nil, ErrShopNotFound
	}
	return &s, nil
}
