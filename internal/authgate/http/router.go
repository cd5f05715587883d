package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/authgate/internal/authgate/service"
	"github.com/aussiebroadwan/authgate/internal/authgate/store"
	"github.com/aussiebroadwan/authgate/pkg/httpx"
	"github.com/aussiebroadwan/authgate/pkg/identity"
	"github.com/aussiebroadwan/authgate/pkg/slogx"

	_ "github.com/aussiebroadwan/authgate/api/authgate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     identity.Verifier
	cookieName   string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	SessionService   *service.SessionService
	TwoFactorService *service.TwoFactorService
	TOTPService      *service.TOTPService
}

func NewRouter(
	verifier identity.Verifier,
	cookieName, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		cookieName:   cookieName,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerTwoFactor()
	r.registerTOTP()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			AuthGate API
//	@version		0.1.0
//	@description	Authentication boundary service: opaque cookie sessions backed by an external
//	@description	identity provider, plus an email passcode and authenticator-app second factor.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/authgate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						authgate_session
//	@description				Session cookie set by POST /v1/session.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	h := &SessionHandler{SessionService: r.SessionService}

	// POST /v1/session carries a credential, so brute force protection is by
	// IP: there is no principal yet to key on.
	r.Mux.Handle("POST /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleEstablish),
			httpx.RateLimit(httpx.StrictLimit, httpx.IPKey),
		),
	)

	r.Mux.Handle("DELETE /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleTerminate),
			httpx.RateLimit(httpx.LenientLimit, httpx.IPKey),
		),
	)
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{TwoFactorService: r.TwoFactorService}
	authn := httpx.SessionAuth(r.verifier, r.cookieName)

	// Issuance has its own per-account cooldown; the moderate limit only
	// stops abusive clients from hammering the endpoint.
	r.Mux.Handle("POST /v1/2fa/otp",
		httpx.Chain(http.HandlerFunc(h.HandleIssue),
			authn,
			httpx.RateLimit(httpx.ModerateLimit, httpx.AccountKey),
		),
	)

	// Strict limit on verification to slow down code guessing.
	r.Mux.Handle("POST /v1/2fa/otp/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			authn,
			httpx.RateLimit(httpx.StrictLimit, httpx.AccountKey),
		),
	)

	r.Mux.Handle("PUT /v1/2fa",
		httpx.Chain(http.HandlerFunc(h.HandleSetEnabled),
			authn,
			httpx.RateLimit(httpx.ModerateLimit, httpx.AccountKey),
		),
	)
}

func (r *Router) registerTOTP() {
	h := &TOTPHandler{TOTPService: r.TOTPService}
	authn := httpx.SessionAuth(r.verifier, r.cookieName)

	r.Mux.Handle("POST /v1/2fa/totp/enroll",
		httpx.Chain(http.HandlerFunc(h.HandleEnroll),
			authn,
			httpx.RateLimit(httpx.ModerateLimit, httpx.AccountKey),
		),
	)

	// Activation, verification and removal all take a guessable code.
	r.Mux.Handle("POST /v1/2fa/totp/activate",
		httpx.Chain(http.HandlerFunc(h.HandleActivate),
			authn,
			httpx.RateLimit(httpx.StrictLimit, httpx.AccountKey),
		),
	)
	r.Mux.Handle("POST /v1/2fa/totp/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			authn,
			httpx.RateLimit(httpx.StrictLimit, httpx.AccountKey),
		),
	)
	r.Mux.Handle("DELETE /v1/2fa/totp",
		httpx.Chain(http.HandlerFunc(h.HandleRemove),
			authn,
			httpx.RateLimit(httpx.StrictLimit, httpx.AccountKey),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimit(httpx.LenientLimit, httpx.IPKey),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimit(httpx.LenientLimit, httpx.IPKey),
		),
	)
}
