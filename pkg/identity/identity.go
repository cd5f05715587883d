// Package identity verifies externally-issued identity tokens. The service
// never mints these tokens itself; it only checks that a presented credential
// is genuine and extracts the principal it names.
package identity

import "errors"

// Principal is the verified subject of an identity token.
type Principal struct {
	AccountID string
	Email     string
}

// Verifier validates an identity token and returns the principal it asserts.
// Every protected request goes through this, there is no server-side session
// cache that could drift from the provider's revocation state.
type Verifier interface {
	Verify(token string) (Principal, error)
}

var (
	ErrMalformed   = errors.New("identity: malformed token")
	ErrInvalidSig  = errors.New("identity: invalid signature")
	ErrExpired     = errors.New("identity: token expired")
	ErrIssuer      = errors.New("identity: issuer mismatch")
	ErrAudience    = errors.New("identity: audience mismatch")
	ErrNoSubject   = errors.New("identity: token missing subject")
	ErrUnsupported = errors.New("identity: unsupported signing algorithm")
)

// IsVerificationError reports whether err is a token rejection rather than an
// operational failure. Callers map rejections to 401 and the rest to 500.
func IsVerificationError(err error) bool {
	for _, sentinel := range []error{
		ErrMalformed, ErrInvalidSig, ErrExpired,
		ErrIssuer, ErrAudience, ErrNoSubject, ErrUnsupported,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
