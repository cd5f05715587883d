package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/authgate/internal/authgate/domain"
	"github.com/aussiebroadwan/authgate/internal/authgate/notify"
	"github.com/aussiebroadwan/authgate/internal/authgate/store"
	"github.com/aussiebroadwan/authgate/pkg/clockx"
	"github.com/aussiebroadwan/authgate/pkg/cryptox"
	"github.com/aussiebroadwan/authgate/pkg/identity"
	"github.com/aussiebroadwan/authgate/pkg/slogx"
)

var (
	// ErrThrottled is returned when a code was already issued inside the
	// resend cooldown window.
	ErrThrottled = errors.New("code recently issued")

	// ErrNoPendingChallenge is returned when verification runs without an
	// outstanding passcode.
	ErrNoPendingChallenge = errors.New("no pending challenge")

	// ErrExpiredCode is returned when the pending passcode's window passed.
	ErrExpiredCode = errors.New("code expired")

	// ErrIncorrectCode is returned when the submitted code does not match.
	ErrIncorrectCode = errors.New("incorrect code")

	// ErrMalformedCode is returned when the submitted code is not a
	// well-formed passcode.
	ErrMalformedCode = errors.New("malformed code")

	// ErrDeliveryFailed is returned when the challenge was recorded but the
	// email could not be sent. The recorded code stays redeemable.
	ErrDeliveryFailed = errors.New("passcode delivery failed")
)

// ThrottledError reports how long the caller must wait before the next
// issuance. It matches ErrThrottled under errors.Is.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("code recently issued, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *ThrottledError) Is(target error) bool { return target == ErrThrottled }

const (
	// DefaultCooldown is the minimum gap between issuances per account.
	DefaultCooldown = 60 * time.Second

	// DefaultCodeTTL is how long an emailed passcode stays redeemable.
	DefaultCodeTTL = 10 * time.Minute
)

// TwoFactorService runs the emailed passcode challenge lifecycle and the
// enablement toggle.
type TwoFactorService struct {
	Store    store.Store
	Notifier notify.Notifier
	Clock    clockx.Clock

	// Cooldown and CodeTTL fall back to the defaults when zero.
	Cooldown time.Duration
	CodeTTL  time.Duration
}

func (s *TwoFactorService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return clockx.System{}.Now()
}

func (s *TwoFactorService) cooldown() time.Duration {
	if s.Cooldown > 0 {
		return s.Cooldown
	}
	return DefaultCooldown
}

// CooldownWindow exposes the effective cooldown so the HTTP layer can set
// Retry-After on throttled responses.
func (s *TwoFactorService) CooldownWindow() time.Duration {
	return s.cooldown()
}

func (s *TwoFactorService) codeTTL() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultCodeTTL
}

// IssueCode generates a fresh passcode for the account, persists its digest
// and emails the plaintext. Issuing again replaces any previous pending code.
// Inside the cooldown window nothing is touched and ErrThrottled is returned.
func (s *TwoFactorService) IssueCode(ctx context.Context, p identity.Principal) (domain.ChallengeReceipt, error) {
	acct, err := ensureAccount(ctx, s.Store.Accounts(), p)
	if err != nil {
		return domain.ChallengeReceipt{}, err
	}

	now := s.now()
	if acct.TwoFactorCodeSentAt != nil {
		if elapsed := now.Sub(*acct.TwoFactorCodeSentAt); elapsed < s.cooldown() {
			return domain.ChallengeReceipt{}, &ThrottledError{RetryAfter: s.cooldown() - elapsed}
		}
	}

	code, err := cryptox.GeneratePasscode()
	if err != nil {
		return domain.ChallengeReceipt{}, fmt.Errorf("generate passcode: %w", err)
	}

	expiresAt := now.Add(s.codeTTL())
	if err := s.Store.Accounts().SetChallenge(ctx, acct.ID, cryptox.DigestPasscode(code), expiresAt, now); err != nil {
		return domain.ChallengeReceipt{}, fmt.Errorf("record challenge: %w", err)
	}

	if err := s.Notifier.SendPasscode(ctx, acct.Email, code, expiresAt); err != nil {
		// The digest is already committed; surface the failure without
		// discarding the challenge so a later resend stays throttled.
		slogx.FromContext(ctx).ErrorContext(ctx, "passcode email failed",
			slog.String("account_id", acct.ID),
			slog.Any("error", err),
		)
		return domain.ChallengeReceipt{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	return domain.ChallengeReceipt{SentAt: now, ExpiresAt: expiresAt}, nil
}

// VerifyCode redeems the pending passcode. On success the challenge is
// cleared so the same code can never be replayed. The checks run in a fixed
// order: pending, unexpired, matching.
func (s *TwoFactorService) VerifyCode(ctx context.Context, p identity.Principal, code string) error {
	code, err := cryptox.NormalizePasscode(code)
	if err != nil {
		return ErrMalformedCode
	}

	acct, err := s.Store.Accounts().GetAccountByID(ctx, p.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNoPendingChallenge
	}
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	if !acct.HasPendingChallenge() {
		return ErrNoPendingChallenge
	}
	if !s.now().Before(*acct.TwoFactorCodeExpiresAt) {
		return ErrExpiredCode
	}
	if !cryptox.VerifyPasscodeDigest(code, *acct.TwoFactorCodeHash) {
		return ErrIncorrectCode
	}

	// Single use: clear before reporting success.
	if err := s.Store.Accounts().ClearChallenge(ctx, acct.ID); err != nil {
		return fmt.Errorf("clear challenge: %w", err)
	}
	return nil
}

// SetEnabled flips the enablement flag. Disabling also discards any pending
// passcode, so a code issued beforehand cannot be redeemed afterwards.
func (s *TwoFactorService) SetEnabled(ctx context.Context, p identity.Principal, enabled bool) (domain.Account, error) {
	acct, err := ensureAccount(ctx, s.Store.Accounts(), p)
	if err != nil {
		return domain.Account{}, err
	}

	if enabled {
		if err := s.Store.Accounts().SetTwoFactorEnabled(ctx, acct.ID, true); err != nil {
			return domain.Account{}, fmt.Errorf("enable two-factor: %w", err)
		}
	} else {
		err := s.Store.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Accounts().SetTwoFactorEnabled(ctx, acct.ID, false); err != nil {
				return err
			}
			return tx.Accounts().ClearChallenge(ctx, acct.ID)
		})
		if err != nil {
			return domain.Account{}, fmt.Errorf("disable two-factor: %w", err)
		}
	}

	acct, err = s.Store.Accounts().GetAccountByID(ctx, acct.ID)
	if err != nil {
		return domain.Account{}, fmt.Errorf("reload account: %w", err)
	}
	return acct, nil
}
