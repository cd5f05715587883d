package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/authgate/internal/authgate/domain"
	"github.com/aussiebroadwan/authgate/internal/authgate/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func createTestAccount(t *testing.T, st store.Store, id string) domain.Account {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, st.Accounts().CreateAccount(ctx, domain.Account{
		ID:    id,
		Email: id + "@example.com",
	}))

	acct, err := st.Accounts().GetAccountByID(ctx, id)
	require.NoError(t, err)
	return acct
}

func TestAccounts_CreateAndGet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	acct := createTestAccount(t, st, "acct_1")
	require.Equal(t, "acct_1", acct.ID)
	require.Equal(t, "acct_1@example.com", acct.Email)
	require.False(t, acct.TwoFactorEnabled)
	require.False(t, acct.HasPendingChallenge())
	require.False(t, acct.TOTPActive())
	require.False(t, acct.CreatedAt.IsZero())

	_, err := st.Accounts().GetAccountByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccounts_CreateDuplicate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	createTestAccount(t, st, "acct_1")
	err := st.Accounts().CreateAccount(ctx, domain.Account{ID: "acct_1", Email: "other@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestAccounts_SetTwoFactorEnabled(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	createTestAccount(t, st, "acct_1")

	require.NoError(t, st.Accounts().SetTwoFactorEnabled(ctx, "acct_1", true))
	acct, err := st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.True(t, acct.TwoFactorEnabled)

	require.NoError(t, st.Accounts().SetTwoFactorEnabled(ctx, "acct_1", false))
	acct, err = st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.False(t, acct.TwoFactorEnabled)

	require.ErrorIs(t, st.Accounts().SetTwoFactorEnabled(ctx, "missing", true), store.ErrNotFound)
}

func TestAccounts_ChallengeLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	createTestAccount(t, st, "acct_1")

	sentAt := time.Now().UTC().Truncate(time.Second)
	expiresAt := sentAt.Add(10 * time.Minute)

	require.NoError(t, st.Accounts().SetChallenge(ctx, "acct_1", "digest-1", expiresAt, sentAt))

	acct, err := st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.True(t, acct.HasPendingChallenge())
	require.Equal(t, "digest-1", *acct.TwoFactorCodeHash)
	require.WithinDuration(t, expiresAt, *acct.TwoFactorCodeExpiresAt, time.Second)
	require.WithinDuration(t, sentAt, *acct.TwoFactorCodeSentAt, time.Second)

	// Re-issuing overwrites the whole triple.
	later := sentAt.Add(2 * time.Minute)
	require.NoError(t, st.Accounts().SetChallenge(ctx, "acct_1", "digest-2", later.Add(10*time.Minute), later))
	acct, err = st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.Equal(t, "digest-2", *acct.TwoFactorCodeHash)
	require.WithinDuration(t, later, *acct.TwoFactorCodeSentAt, time.Second)

	// Clearing drops the code but keeps sent-at for the cooldown.
	require.NoError(t, st.Accounts().ClearChallenge(ctx, "acct_1"))
	acct, err = st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.False(t, acct.HasPendingChallenge())
	require.Nil(t, acct.TwoFactorCodeHash)
	require.Nil(t, acct.TwoFactorCodeExpiresAt)
	require.NotNil(t, acct.TwoFactorCodeSentAt)
}

func TestAccounts_TOTPLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	createTestAccount(t, st, "acct_1")

	sealed := []byte{0x01, 0x02, 0x03}
	require.NoError(t, st.Accounts().SetTOTPSecret(ctx, "acct_1", sealed))

	acct, err := st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.Equal(t, sealed, acct.TOTPSecret)
	require.Nil(t, acct.TOTPConfirmedAt)
	require.False(t, acct.TOTPActive())

	confirmedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, st.Accounts().ConfirmTOTP(ctx, "acct_1", confirmedAt))
	acct, err = st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.True(t, acct.TOTPActive())
	require.WithinDuration(t, confirmedAt, *acct.TOTPConfirmedAt, time.Second)

	// Replacing the seed resets the confirmation.
	require.NoError(t, st.Accounts().SetTOTPSecret(ctx, "acct_1", []byte{0x04}))
	acct, err = st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.False(t, acct.TOTPActive())

	require.NoError(t, st.Accounts().ClearTOTP(ctx, "acct_1"))
	acct, err = st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.Empty(t, acct.TOTPSecret)
	require.Nil(t, acct.TOTPConfirmedAt)
}

func TestAccounts_DeleteExpiredChallenges(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	createTestAccount(t, st, "expired")
	createTestAccount(t, st, "fresh")

	now := time.Now().UTC()
	require.NoError(t, st.Accounts().SetChallenge(ctx, "expired", "old-digest", now.Add(-time.Minute), now.Add(-11*time.Minute)))
	require.NoError(t, st.Accounts().SetChallenge(ctx, "fresh", "new-digest", now.Add(9*time.Minute), now))

	require.NoError(t, st.Accounts().DeleteExpiredChallenges(ctx, now))

	expired, err := st.Accounts().GetAccountByID(ctx, "expired")
	require.NoError(t, err)
	require.False(t, expired.HasPendingChallenge())
	require.NotNil(t, expired.TwoFactorCodeSentAt, "sweep keeps sent-at")

	fresh, err := st.Accounts().GetAccountByID(ctx, "fresh")
	require.NoError(t, err)
	require.True(t, fresh.HasPendingChallenge())
}

func TestStore_WithTxRollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	createTestAccount(t, st, "acct_1")

	sentinel := context.Canceled
	err := st.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Accounts().SetTwoFactorEnabled(ctx, "acct_1", true))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	acct, err := st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.False(t, acct.TwoFactorEnabled, "rolled back write must not be visible")
}

func TestStore_WithTxCommits(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	createTestAccount(t, st, "acct_1")

	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Accounts().SetTwoFactorEnabled(ctx, "acct_1", true)
	}))

	acct, err := st.Accounts().GetAccountByID(ctx, "acct_1")
	require.NoError(t, err)
	require.True(t, acct.TwoFactorEnabled)
}
