package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/db"
)

// verification repository
type verification struct {
	conn db.Storage
}

// NewVerification creates a new verification repository
func NewVerification(conn db.Storage) ports.VerificationRepository {
	return &verification{conn}
}

// GetByID returns a verification record by id
func (r *verification) GetByID(ctx context.Context, id uuid.UUID) (*domain.Verification, error) {
	const query = `
SELECT id, shop_id, session_id, method, price, result, status, metadata, created_at, completed_at
FROM verifications
WHERE id = $1;`
	return r.get(ctx, query, id)
}

// GetBySessionID returns the verification record paired with a session
func (r *verification) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.Verification, error) {
	const query = `
SELECT id, shop_id, session_id, method, price, result, status, metadata, created_at, completed_at
FROM verifications
WHERE session_id = $1;`
	return r.get(ctx, query, sessionID)
}

func (r *verification) get(ctx context.Context, query string, arg any) (*domain.Verification, error) {
	var v domain.Verification
	var method, status string
	var metadata pgtype.JSONB
	err := r.conn.Pgx.QueryRow(ctx, query, arg).Scan(
		&v.ID,
		&v.ShopID,
		&v.SessionID,
		&method,
		&v.Price,
		&v.Result,
		&status,
		&metadata,
		&v.CreatedAt,
		&v.CompletedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no rows in result set") {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	v.Method = domain.Method(method)
	v.Status = domain.VerificationRecordStatus(status)
	if v.Metadata, err = mapFromJSONB(metadata); err != nil {
		return nil, err
	}
	return &v, nil
}
