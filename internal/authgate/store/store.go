package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/authgate/internal/authgate/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. The accounts table is the single source of truth for all
// challenge state; there is no in-process cache in front of it.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Tx starts a read/write transaction scoped Store. The caller MUST call
	// Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns nil
	// and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store with Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns the account record, or ErrNotFound.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// CreateAccount inserts a new account row. ErrAlreadyExists on ID clash.
	CreateAccount(ctx context.Context, a domain.Account) error

	// SetTwoFactorEnabled overwrites the enablement flag.
	SetTwoFactorEnabled(ctx context.Context, accountID string, enabled bool) error

	// SetChallenge writes the passcode digest, expiry and sent-at in a single
	// statement so a concurrent reader never observes a torn triple.
	SetChallenge(ctx context.Context, accountID, codeHash string, expiresAt, sentAt time.Time) error

	// ClearChallenge nulls the digest and expiry. Sent-at is preserved so the
	// issuance cooldown keeps its meaning.
	ClearChallenge(ctx context.Context, accountID string) error

	// SetTOTPSecret stores the sealed authenticator seed and resets the
	// confirmation marker.
	SetTOTPSecret(ctx context.Context, accountID string, sealed []byte) error

	// ConfirmTOTP marks the enrolled authenticator as proven.
	ConfirmTOTP(ctx context.Context, accountID string, at time.Time) error

	// ClearTOTP removes the seed and confirmation marker.
	ClearTOTP(ctx context.Context, accountID string) error

	// DeleteExpiredChallenges nulls challenge fields whose expiry passed
	// before the cutoff. Housekeeping only; correctness never depends on it.
	DeleteExpiredChallenges(ctx context.Context, before time.Time) error
}
