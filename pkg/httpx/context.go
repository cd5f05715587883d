package httpx

import (
	"context"

	"github.com/aussiebroadwan/authgate/pkg/identity"
)

type ctxKey string

const (
	// CtxKeyPrincipal holds the identity.Principal injected by SessionAuth.
	CtxKeyPrincipal ctxKey = "principal"
)

// PrincipalFromContext returns the verified principal for the request, if any.
func PrincipalFromContext(ctx context.Context) (identity.Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(identity.Principal)
	return p, ok
}
