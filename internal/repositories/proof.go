package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/db"
)

// proof repository
type proof struct {
	conn db.Storage
}

// NewProof creates a new proof repository
func NewProof(conn db.Storage) ports.ProofRepository {
	return &proof{conn}
}

// SaveProof stores a minted proof token
func (r *proof) SaveProof(ctx context.Context, p *domain.SavedVerification) error {
	const query = `
INSERT
INTO saved_verifications (id, verification_hash, method, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5);`

	_, err := r.conn.Pgx.Exec(ctx, query, p.ID, p.Hash, string(p.Method), p.CreatedAt, p.ExpiresAt)
	return err
}

// GetProofByHash returns the proof holding the given token
func (r *proof) GetProofByHash(ctx context.Context, hash string) (*domain.SavedVerification, error) {
	const query = `
SELECT id, verification_hash, method, created_at, expires_at
FROM saved_verifications
WHERE verification_hash = $1;`

	var p domain.SavedVerification
	var method string
	err := r.conn.Pgx.QueryRow(ctx, query, hash).Scan(&p.ID, &p.Hash, &method, &p.CreatedAt, &p.ExpiresAt)
	if err != nil {
		if strings.Contains(err.Error(), "no rows in result set") {
			return nil, ErrProofNotFound
		}
		return nil, err
	}
	p.Method = domain.SaveMethod(method)
	return &p, nil
}

// SaveResult stores the binding of a proof to a contact channel
func (r *proof) SaveResult(ctx context.Context, result *domain.VerificationResult) error {
	const query = `
INSERT
INTO verification_results (id, verification_id, save_method, identifier, valid_until, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);`

	metadata, err := jsonbFromMap(result.Metadata)
	if err != nil {
		return err
	}
	_, err = r.conn.Pgx.Exec(ctx, query,
		result.ID,
		result.VerificationID,
		string(result.SaveMethod),
		result.Identifier,
		result.ValidUntil,
		metadata,
		result.CreatedAt,
	)
	return err
}

// GetResultByID returns a channel binding by id
func (r *proof) GetResultByID(ctx context.Context, id uuid.UUID) (*domain.VerificationResult, error) {
	const query = `
SELECT id, verification_id, save_method, identifier, valid_until, metadata, created_at
FROM verification_results
WHERE id = $1;`
	return r.getResult(ctx, query, id)
}

// GetLatestResult returns the most recent binding for the channel and
// identifier still valid at now.
func (r *proof) GetLatestResult(ctx context.Context, saveMethod domain.SaveMethod, identifier string, now time.Time) (*domain.VerificationResult, error) {
	const query = `
SELECT id, verification_id, save_method, identifier, valid_until, metadata, created_at
FROM verification_results
WHERE save_method = $1 AND identifier = $2 AND valid_until >= $3
ORDER BY created_at DESC
LIMIT 1;`
	return r.getResult(ctx, query, string(saveMethod), identifier, now)
}

func (r *proof) getResult(ctx context.Context, query string, args ...any) (*domain.VerificationResult, error) {
	var res domain.VerificationResult
	var method string
	var metadata pgtype.JSONB
	err := r.conn.Pgx.QueryRow(ctx, query, args...).Scan(
		&res.ID,
		&res.VerificationID,
		&method,
		&res.Identifier,
		&res.ValidUntil,
		&metadata,
		&res.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no rows in result set") {
			return nil, ErrProofNotFound
		}
		return nil, err
	}
	res.SaveMethod = domain.SaveMethod(method)
	if res.Metadata, err = mapFromJSONB(metadata); err != nil {
		return nil, err
	}
	return &res, nil
}
