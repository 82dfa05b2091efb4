package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/db"
)

// shop repository
type shop struct {
	conn db.Storage
}

// NewShop creates a new shop repository
func NewShop(conn db.Storage) ports.ShopRepository {
	return &shop{conn}
}

// GetByID returns a shop by id
func (r *shop) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	const query = `
SELECT id, company_id, name, status, pricing_plan, verification_methods, created_at
FROM shops
WHERE id = $1;`

	var s domain.Shop
	var methods []string
	err := r.conn.Pgx.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.CompanyID,
		&s.Name,
		&s.Status,
		&s.PricingPlan,
		&methods,
		&s.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no rows in result set") {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	s.Methods = make([]domain.Method, len(methods))
	for i, m := range methods {
		s.Methods[i] = domain.Method(m)
	}
	return &s, nil
}
