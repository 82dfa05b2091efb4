package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"

	"github.com/passprove/verification-node/internal/core/domain"
	"github.com/passprove/verification-node/internal/core/ports"
	"github.com/passprove/verification-node/internal/db"
)

// session repository
type session struct {
	conn db.Storage
}

// NewSession creates a new session repository
func NewSession(conn db.Storage) ports.SessionRepository {
	return &session{conn}
}

// CreateWithVerification inserts the session and its paired verification
// record inside one transaction, so a failure on either insert leaves no row
// behind.
func (r *session) CreateWithVerification(ctx context.Context, s *domain.VerificationSession, v *domain.Verification) error {
	tx, err := r.conn.Pgx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertSession(ctx, tx, s); err != nil {
		return err
	}
	if err := insertVerification(ctx, tx, v); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

func insertSession(ctx context.Context, conn db.Querier, s *domain.VerificationSession) error {
	const query = `
INSERT
INTO verification_sessions (id, shop_id, verification_method, status, verification_details, ip_address, user_agent, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	details, err := jsonbFromMap(s.Details)
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, query,
		s.ID,
		s.ShopID,
		string(s.Method),
		string(s.Status),
		details,
		s.IPAddress,
		s.UserAgent,
		s.CreatedAt,
		s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("could not insert verification session: %w", err)
	}
	return nil
}

func insertVerification(ctx context.Context, conn db.Querier, v *domain.Verification) error {
	const query = `
INSERT
INTO verifications (id, shop_id, session_id, method, price, result, status, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	metadata, err := jsonbFromMap(v.Metadata)
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, query,
		v.ID,
		v.ShopID,
		v.SessionID,
		string(v.Method),
		v.Price,
		v.Result,
		string(v.Status),
		metadata,
		v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not insert verification record: %w", err)
	}
	return nil
}

// GetByID returns a session by its id
func (r *session) GetByID(ctx context.Context, id uuid.UUID) (*domain.VerificationSession, error) {
	const query = `
SELECT id, shop_id, verification_method, status, verification_result, verification_details, ip_address, user_agent, created_at, expires_at, completed_at
FROM verification_sessions
WHERE id = $1;`

	var s domain.VerificationSession
	var method, status string
	var result *string
	var details pgtype.JSONB
	var ip, ua *string
	err := r.conn.Pgx.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.ShopID,
		&method,
		&status,
		&result,
		&details,
		&ip,
		&ua,
		&s.CreatedAt,
		&s.ExpiresAt,
		&s.CompletedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "no rows in result set") {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	s.Method = domain.Method(method)
	s.Status = domain.SessionStatus(status)
	if result != nil {
		res := domain.VerificationResultStatus(*result)
		s.Result = &res
	}
	if ip != nil {
		s.IPAddress = *ip
	}
	if ua != nil {
		s.UserAgent = *ua
	}
	if s.Details, err = mapFromJSONB(details); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateDetails replaces the working details of a still pending session
func (r *session) UpdateDetails(ctx context.Context, id uuid.UUID, details map[string]any) error {
	const query = `UPDATE verification_sessions SET verification_details = $2 WHERE id = $1 AND status = 'pending';`

	raw, err := jsonbFromMap(details)
	if err != nil {
		return err
	}
	cmd, err := r.conn.Pgx.Exec(ctx, query, id, raw)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotPending
	}
	return nil
}

// FinishWithVerification moves a pending session to its terminal state and
// records the outcome on its paired verification record inside one
// transaction. The status check is part of the session update statement, which
// makes the transition at-most-once under concurrent writers; a lost race
// rolls back before the verification row is touched.
func (r *session) FinishWithVerification(ctx context.Context, id uuid.UUID, status domain.SessionStatus, result domain.VerificationResultStatus, details map[string]any, completedAt time.Time) error {
	tx, err := r.conn.Pgx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := finishSession(ctx, tx, id, status, result, details, completedAt); err != nil {
		return err
	}
	if err := finishVerification(ctx, tx, id, result, details, completedAt); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

func finishSession(ctx context.Context, conn db.Querier, id uuid.UUID, status domain.SessionStatus, result domain.VerificationResultStatus, details map[string]any, completedAt time.Time) error {
	const query = `
UPDATE verification_sessions
SET status = $2, verification_result = $3, verification_details = $4, completed_at = $5
WHERE id = $1 AND status = 'pending';`

	raw, err := jsonbFromMap(details)
	if err != nil {
		return err
	}
	cmd, err := conn.Exec(ctx, query, id, string(status), string(result), raw, completedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotPending
	}
	return nil
}

func finishVerification(ctx context.Context, conn db.Querier, sessionID uuid.UUID, result domain.VerificationResultStatus, metadata map[string]any, completedAt time.Time) error {
	const query = `
UPDATE verifications
SET result = $2, status = 'completed', metadata = $3, completed_at = $4
WHERE session_id = $1 AND status = 'pending';`

	raw, err := jsonbFromMap(metadata)
	if err != nil {
		return err
	}
	cmd, err := conn.Exec(ctx, query, sessionID, string(result), raw, completedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVerificationNotFound
	}
	return nil
}
