package httpx

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/authgate/pkg/identity"
	"github.com/aussiebroadwan/authgate/pkg/slogx"
)

// SessionAuth authenticates requests from the session cookie. The cookie value
// is the raw identity token, which is re-verified against the provider on
// every request; no session state is kept locally.
func SessionAuth(v identity.Verifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				writeUnauthorized(w, "missing session")
				return
			}

			principal, err := v.Verify(cookie.Value)
			if err != nil {
				if identity.IsVerificationError(err) {
					log.Warn("session token rejected", "err", err)
				} else {
					log.Error("session token verification failed", "err", err)
				}
				writeUnauthorized(w, "session credential is invalid or expired")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyPrincipal, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, desc string) {
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "unauthorized",
		"error_description": desc,
	})
}
