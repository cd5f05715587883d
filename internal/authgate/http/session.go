// Package http exposes the authentication boundary over HTTP. Handlers decode
// requests, call the service layer and map its sentinels to wire errors; no
// business rules live here.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/authgate/internal/authgate/service"
	"github.com/aussiebroadwan/authgate/pkg/slogx"
)

// SessionRequest is the body of a session establishment call.
type SessionRequest struct {
	IdentityToken string `json:"identity_token"`
}

// SessionHandler handles session establishment and termination.
type SessionHandler struct {
	SessionService *service.SessionService
}

// HandleEstablish handles POST /v1/session
//
//	@Summary		Establish a session
//	@Description	Wraps the presented identity token in the session cookie. The token is not verified here; protected endpoints verify it on every request. The response carries no body; the cookie is the session.
//	@Tags			Session
//	@Accept			json
//	@Success		204	"Session established; cookie set"
//	@Failure		400	{object}	ErrorResponse	"Missing token or malformed body"
//	@Router			/v1/session [post].
func (h *SessionHandler) HandleEstablish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		errInvalidRequest.WriteError(w)
		return
	}

	cookie, err := h.SessionService.Establish(req.IdentityToken)
	if err != nil {
		if errors.Is(err, service.ErrMissingToken) {
			errInvalidRequest.WriteError(w)
			return
		}
		log.Error("failed to establish session", "err", err)
		errServerError.WriteError(w)
		return
	}

	log.Info("session established")
	http.SetCookie(w, cookie)
	w.WriteHeader(http.StatusNoContent)
}

// HandleTerminate handles DELETE /v1/session
//
//	@Summary		Terminate the session
//	@Description	Clears the session cookie. Succeeds whether or not a session existed.
//	@Tags			Session
//	@Success		204	"Session cleared"
//	@Router			/v1/session [delete].
func (h *SessionHandler) HandleTerminate(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.SessionService.Terminate())
	w.WriteHeader(http.StatusNoContent)
}
