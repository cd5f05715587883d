package service

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/authgate/internal/authgate/store"
	"github.com/aussiebroadwan/authgate/internal/authgate/store/drivers/sqlite"
	"github.com/aussiebroadwan/authgate/pkg/clockx"
	"github.com/aussiebroadwan/authgate/pkg/cryptox"
)

func newTOTPFixture(t *testing.T) (*TOTPService, *clockx.Fixed, store.Store) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	sealer, err := cryptox.NewSealer([]byte("test-seal-key"))
	require.NoError(t, err)

	clock := &clockx.Fixed{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := &TOTPService{
		Store:  st,
		Sealer: sealer,
		Clock:  clock,
		Issuer: "AuthGate",
	}
	return svc, clock, st
}

func codeAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)
	return code
}

func TestTOTP_EnrollActivateVerify(t *testing.T) {
	svc, clock, st := newTOTPFixture(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, testPrincipal)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.OTPAuthURL, "otpauth://totp/")
	require.Contains(t, enrollment.OTPAuthURL, "AuthGate")

	// The stored seed is sealed, not the raw base32 secret.
	acct, err := st.Accounts().GetAccountByID(ctx, testPrincipal.AccountID)
	require.NoError(t, err)
	require.NotEmpty(t, acct.TOTPSecret)
	require.NotEqual(t, []byte(enrollment.Secret), acct.TOTPSecret)
	require.False(t, acct.TOTPActive())

	// Inactive factors cannot verify.
	require.ErrorIs(t, svc.Verify(ctx, testPrincipal, codeAt(t, enrollment.Secret, clock.Now())), ErrTOTPNotActive)

	require.NoError(t, svc.Activate(ctx, testPrincipal, codeAt(t, enrollment.Secret, clock.Now())))

	acct, err = st.Accounts().GetAccountByID(ctx, testPrincipal.AccountID)
	require.NoError(t, err)
	require.True(t, acct.TOTPActive())

	clock.Advance(5 * time.Minute)
	require.NoError(t, svc.Verify(ctx, testPrincipal, codeAt(t, enrollment.Secret, clock.Now())))
	require.ErrorIs(t, svc.Verify(ctx, testPrincipal, "000000"), ErrIncorrectCode)
}

func TestTOTP_ActivateRejectsWrongCode(t *testing.T) {
	svc, clock, st := newTOTPFixture(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, testPrincipal)
	require.NoError(t, err)

	wrong := codeAt(t, enrollment.Secret, clock.Now().Add(-time.Hour))
	require.ErrorIs(t, svc.Activate(ctx, testPrincipal, wrong), ErrIncorrectCode)

	acct, err := st.Accounts().GetAccountByID(ctx, testPrincipal.AccountID)
	require.NoError(t, err)
	require.False(t, acct.TOTPActive())
}

func TestTOTP_ActivateWithoutEnrollment(t *testing.T) {
	svc, _, _ := newTOTPFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.Activate(ctx, testPrincipal, "123456"), ErrTOTPNotEnrolled)
}

func TestTOTP_ReEnrollBeforeActivationReplacesSeed(t *testing.T) {
	svc, clock, _ := newTOTPFixture(t)
	ctx := context.Background()

	first, err := svc.Enroll(ctx, testPrincipal)
	require.NoError(t, err)
	second, err := svc.Enroll(ctx, testPrincipal)
	require.NoError(t, err)
	require.NotEqual(t, first.Secret, second.Secret)

	// Only the replacement seed activates.
	require.ErrorIs(t, svc.Activate(ctx, testPrincipal, codeAt(t, first.Secret, clock.Now())), ErrIncorrectCode)
	require.NoError(t, svc.Activate(ctx, testPrincipal, codeAt(t, second.Secret, clock.Now())))
}

func TestTOTP_EnrollWhileActive(t *testing.T) {
	svc, clock, _ := newTOTPFixture(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, testPrincipal)
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, testPrincipal, codeAt(t, enrollment.Secret, clock.Now())))

	_, err = svc.Enroll(ctx, testPrincipal)
	require.ErrorIs(t, err, ErrTOTPAlreadyActive)

	require.ErrorIs(t,
		svc.Activate(ctx, testPrincipal, codeAt(t, enrollment.Secret, clock.Now())),
		ErrTOTPAlreadyActive)
}

func TestTOTP_DisableRequiresValidCode(t *testing.T) {
	svc, clock, st := newTOTPFixture(t)
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, testPrincipal)
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, testPrincipal, codeAt(t, enrollment.Secret, clock.Now())))

	require.ErrorIs(t, svc.Disable(ctx, testPrincipal, "000000"), ErrIncorrectCode)

	require.NoError(t, svc.Disable(ctx, testPrincipal, codeAt(t, enrollment.Secret, clock.Now())))

	acct, err := st.Accounts().GetAccountByID(ctx, testPrincipal.AccountID)
	require.NoError(t, err)
	require.Empty(t, acct.TOTPSecret)

	require.ErrorIs(t, svc.Disable(ctx, testPrincipal, "123456"), ErrTOTPNotActive)
}
