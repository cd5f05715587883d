package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/aussiebroadwan/authgate/internal/authgate/store"
	"github.com/aussiebroadwan/authgate/pkg/clockx"
	"github.com/aussiebroadwan/authgate/pkg/cryptox"
	"github.com/aussiebroadwan/authgate/pkg/identity"
)

var (
	// ErrTOTPAlreadyActive is returned when enrollment or activation runs
	// against an account whose authenticator factor is already confirmed.
	ErrTOTPAlreadyActive = errors.New("totp already active")

	// ErrTOTPNotEnrolled is returned when activation runs without a prior
	// enrollment.
	ErrTOTPNotEnrolled = errors.New("totp not enrolled")

	// ErrTOTPNotActive is returned when verification or removal targets an
	// account without a confirmed authenticator.
	ErrTOTPNotActive = errors.New("totp not active")
)

// TOTPEnrollment is handed back once at enrollment so the user can load the
// seed into an authenticator app. Neither field is ever returned again.
type TOTPEnrollment struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// TOTPService manages the authenticator-app factor. Seeds are sealed before
// storage and only unsealed transiently to check a code.
type TOTPService struct {
	Store  store.Store
	Sealer *cryptox.Sealer
	Clock  clockx.Clock

	// Issuer is the label shown in authenticator apps.
	Issuer string
}

func (s *TOTPService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return clockx.System{}.Now()
}

// Enroll generates a fresh seed for the account and stores it sealed. The
// factor stays inert until Activate proves possession. Re-enrolling before
// activation replaces the previous seed.
func (s *TOTPService) Enroll(ctx context.Context, p identity.Principal) (TOTPEnrollment, error) {
	acct, err := ensureAccount(ctx, s.Store.Accounts(), p)
	if err != nil {
		return TOTPEnrollment{}, err
	}
	if acct.TOTPActive() {
		return TOTPEnrollment{}, ErrTOTPAlreadyActive
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: acct.Email,
	})
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("generate totp seed: %w", err)
	}

	sealed, err := s.Sealer.Seal([]byte(key.Secret()))
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("seal totp seed: %w", err)
	}
	if err := s.Store.Accounts().SetTOTPSecret(ctx, acct.ID, sealed); err != nil {
		return TOTPEnrollment{}, fmt.Errorf("store totp seed: %w", err)
	}

	return TOTPEnrollment{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

// Activate confirms the enrolled seed by checking a code generated from it.
func (s *TOTPService) Activate(ctx context.Context, p identity.Principal, code string) error {
	acct, err := s.Store.Accounts().GetAccountByID(ctx, p.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTOTPNotEnrolled
	}
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	if len(acct.TOTPSecret) == 0 {
		return ErrTOTPNotEnrolled
	}
	if acct.TOTPActive() {
		return ErrTOTPAlreadyActive
	}

	if err := s.check(acct.TOTPSecret, code); err != nil {
		return err
	}
	if err := s.Store.Accounts().ConfirmTOTP(ctx, acct.ID, s.now()); err != nil {
		return fmt.Errorf("confirm totp: %w", err)
	}
	return nil
}

// Verify checks a code against the active authenticator factor.
func (s *TOTPService) Verify(ctx context.Context, p identity.Principal, code string) error {
	acct, err := s.Store.Accounts().GetAccountByID(ctx, p.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTOTPNotActive
	}
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if !acct.TOTPActive() {
		return ErrTOTPNotActive
	}

	return s.check(acct.TOTPSecret, code)
}

// Disable removes the authenticator factor. A valid current code is required
// so a hijacked session cannot silently strip the factor.
func (s *TOTPService) Disable(ctx context.Context, p identity.Principal, code string) error {
	acct, err := s.Store.Accounts().GetAccountByID(ctx, p.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTOTPNotActive
	}
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if !acct.TOTPActive() {
		return ErrTOTPNotActive
	}

	if err := s.check(acct.TOTPSecret, code); err != nil {
		return err
	}
	if err := s.Store.Accounts().ClearTOTP(ctx, acct.ID); err != nil {
		return fmt.Errorf("clear totp: %w", err)
	}
	return nil
}

// check unseals the stored seed and validates the code against it with one
// period of skew either side.
func (s *TOTPService) check(sealed []byte, code string) error {
	secret, err := s.Sealer.Open(sealed)
	if err != nil {
		return fmt.Errorf("unseal totp seed: %w", err)
	}

	ok, err := totp.ValidateCustom(code, string(secret), s.now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return ErrIncorrectCode
	}
	if !ok {
		return ErrIncorrectCode
	}
	return nil
}
