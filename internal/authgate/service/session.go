// Package service implements the authentication boundary's business rules:
// session establishment, the emailed passcode challenge lifecycle and the
// authenticator-app factor. Services are plain structs wired by the app
// package; all persistence goes through the store interfaces.
package service

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrMissingToken is returned when a session request carries no token.
	ErrMissingToken = errors.New("missing identity token")
)

// SessionService turns an identity token into a browser session cookie.
// Sessions are stateless: the cookie holds the raw token and every
// authenticated request re-verifies it, so termination is purely client-side.
type SessionService struct {
	// CookieName is the session cookie's name.
	CookieName string

	// TTL bounds the cookie lifetime. The token's own expiry still applies;
	// whichever is shorter wins in practice.
	TTL time.Duration

	// Secure marks the cookie Secure, for deployments behind TLS.
	Secure bool
}

// Establish wraps the supplied token in a session cookie. The token is
// treated as opaque here; an invalid one simply fails verification on the
// first protected request, so establishment checks presence only.
func (s *SessionService) Establish(token string) (*http.Cookie, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	return &http.Cookie{
		Name:     s.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Terminate returns a cookie that instructs the browser to drop the session.
// There is no server-side state to revoke.
func (s *SessionService) Terminate() *http.Cookie {
	return &http.Cookie{
		Name:     s.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
