package domain

import "time"

// Account is the per-account record the step-up protocols mutate. It is keyed
// by the identity provider's stable account ID; provisioning and deletion
// happen outside this service.
type Account struct {
	ID    string
	Email string

	// TwoFactorEnabled gates whether sensitive flows demand a step-up
	// challenge before proceeding.
	TwoFactorEnabled bool

	// TwoFactorCodeHash is the hex digest of the current emailed passcode.
	// The plaintext code is never stored. Nil means no pending challenge.
	TwoFactorCodeHash *string

	// TwoFactorCodeExpiresAt is the instant at which the pending passcode
	// stops being redeemable.
	TwoFactorCodeExpiresAt *time.Time

	// TwoFactorCodeSentAt is the last successful issuance time, used for the
	// resend cooldown. Verification attempts never touch it.
	TwoFactorCodeSentAt *time.Time

	// TOTPSecret is the sealed authenticator-app seed, nil until enrollment.
	TOTPSecret []byte

	// TOTPConfirmedAt is set once the account proves possession of the
	// authenticator; until then the seed is inert.
	TOTPConfirmedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPendingChallenge reports whether an emailed passcode is outstanding.
// The pending state is derived, not stored.
func (a Account) HasPendingChallenge() bool {
	return a.TwoFactorCodeHash != nil && a.TwoFactorCodeExpiresAt != nil
}

// TOTPActive reports whether the authenticator-app factor is usable.
func (a Account) TOTPActive() bool {
	return len(a.TOTPSecret) > 0 && a.TOTPConfirmedAt != nil
}

// ChallengeReceipt is what an issuance returns to the caller: timestamps only,
// never the code itself.
type ChallengeReceipt struct {
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
