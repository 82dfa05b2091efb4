package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passprove/verification-node/internal/core/domain"
)

func TestSessionInMemoryFinishIsSingleShot(t *testing.T) {
	ctx := context.Background()
	verifications := NewVerificationInMemory()
	sessions := NewSessionInMemory(verifications)

	sess := domain.NewVerificationSession(uuid.New(), domain.MethodBankID, nil, "", "")
	verification := domain.NewVerification(sess.ShopID, sess.ID, domain.MethodBankID, 10)
	require.NoError(t, sessions.CreateWithVerification(ctx, sess, verification))

	now := time.Now()
	require.NoError(t, sessions.FinishWithVerification(ctx, sess.ID, domain.StatusCompleted, domain.ResultSuccess, nil, now))
	err := sessions.FinishWithVerification(ctx, sess.ID, domain.StatusFailed, domain.ResultFailure, nil, now)
	assert.ErrorIs(t, err, ErrSessionNotPending)

	stored, err := sessions.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	// the paired billing record finished in the same call
	record, err := verifications.GetBySessionID(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationCompleted, record.Status)
	assert.Equal(t, string(domain.ResultSuccess), record.Result)
}

func TestProofInMemoryGetLatestResult(t *testing.T) {
	ctx := context.Background()
	proofs := NewProofInMemory()
	verificationID := uuid.New()

	put := func(createdAt time.Time, validUntil time.Time) uuid.UUID {
		id := uuid.New()
		require.NoError(t, proofs.SaveResult(ctx, &domain.VerificationResult{
			ID:             id,
			VerificationID: verificationID,
			SaveMethod:     domain.SaveMethodEmail,
			Identifier:     "user@example.com",
			ValidUntil:     validUntil,
			CreatedAt:      createdAt,
		}))
		return id
	}

	now := time.Now()
	put(now.Add(-48*time.Hour), now.Add(30*24*time.Hour))
	newest := put(now.Add(-time.Hour), now.Add(30*24*time.Hour))
	put(now.Add(-time.Minute), now.Add(-time.Minute)) // newest but expired

	result, err := proofs.GetLatestResult(ctx, domain.SaveMethodEmail, "user@example.com", now)
	require.NoError(t, err)
	assert.Equal(t, newest, result.ID)

	_, err = proofs.GetLatestResult(ctx, domain.SaveMethodPhone, "user@example.com", now)
	assert.ErrorIs(t, err, ErrProofNotFound)
}

func TestWalletInMemoryCountByVerification(t *testing.T) {
	ctx := context.Background()
	wallets := NewWalletInMemory()
	companyID := uuid.New()
	wallets.SetBalance(companyID, 100)

	first := uuid.New()
	second := uuid.New()
	require.NoError(t, wallets.SaveTransaction(ctx, domain.NewVerificationDebit(companyID, 10, "TR-1-0001", first, domain.MethodBankID)))
	require.NoError(t, wallets.SaveTransaction(ctx, domain.NewVerificationDebit(companyID, 8, "TR-2-0002", second, domain.MethodMojeID)))

	count, err := wallets.CountByVerification(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, err = wallets.CountByVerification(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
