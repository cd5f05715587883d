// Package notify delivers security mail to account holders. Delivery is the
// last step of passcode issuance; by the time a notifier runs, the challenge
// record is already committed, so failures are surfaced but never rolled back.
package notify

import (
	"context"
	"time"
)

// Notifier sends a plaintext passcode to an address. Implementations must
// return an error on failed delivery so the caller can distinguish "code
// stored but not sent" from success.
type Notifier interface {
	// SendPasscode emails the one-time passcode together with its expiry.
	SendPasscode(ctx context.Context, email, code string, expiresAt time.Time) error

	// Close releases any underlying resources.
	Close() error
}
