package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/authgate/internal/authgate/service"
	"github.com/aussiebroadwan/authgate/pkg/httpx"
	"github.com/aussiebroadwan/authgate/pkg/identity"
	"github.com/aussiebroadwan/authgate/pkg/slogx"
)

// TOTPHandler handles the authenticator-app factor endpoints.
type TOTPHandler struct {
	TOTPService *service.TOTPService
}

// HandleEnroll handles POST /v1/2fa/totp/enroll
//
//	@Summary		Enroll an authenticator app
//	@Description	Generates a seed for the account and returns it once, with its otpauth URL. The factor stays inactive until activated.
//	@Tags			TOTP
//	@Security		SessionCookie
//	@Produce		json
//	@Success		200	{object}	service.TOTPEnrollment	"Seed and otpauth URL, shown once"
//	@Failure		400	{object}	ErrorResponse			"Authenticator already active"
//	@Failure		401	{object}	ErrorResponse			"No valid session"
//	@Failure		500	{object}	ErrorResponse			"Internal server error"
//	@Router			/v1/2fa/totp/enroll [post].
func (h *TOTPHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		errUnauthorized.WriteError(w)
		return
	}

	enrollment, err := h.TOTPService.Enroll(ctx, principal)
	if err != nil {
		if errors.Is(err, service.ErrTOTPAlreadyActive) {
			errTOTPAlreadyActive.WriteError(w)
			return
		}
		log.Error("failed to enroll authenticator", "account_id", principal.AccountID, "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, enrollment)
}

// HandleActivate handles POST /v1/2fa/totp/activate
//
//	@Summary		Activate the enrolled authenticator
//	@Description	Confirms the enrollment by checking a code generated from the seed.
//	@Tags			TOTP
//	@Security		SessionCookie
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CodeRequest			true	"Current authenticator code"
//	@Success		200		{object}	VerifiedResponse	"Factor activated"
//	@Failure		400		{object}	ErrorResponse		"No enrollment, already active, or incorrect code"
//	@Failure		401		{object}	ErrorResponse		"No valid session"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/v1/2fa/totp/activate [post].
func (h *TOTPHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	h.withCode(w, r, h.TOTPService.Activate)
}

// HandleVerify handles POST /v1/2fa/totp/verify
//
//	@Summary		Verify an authenticator code
//	@Description	Checks a code against the active authenticator factor.
//	@Tags			TOTP
//	@Security		SessionCookie
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CodeRequest			true	"Current authenticator code"
//	@Success		200		{object}	VerifiedResponse	"Code accepted"
//	@Failure		400		{object}	ErrorResponse		"Factor not active or incorrect code"
//	@Failure		401		{object}	ErrorResponse		"No valid session"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/v1/2fa/totp/verify [post].
func (h *TOTPHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	h.withCode(w, r, h.TOTPService.Verify)
}

// HandleRemove handles DELETE /v1/2fa/totp
//
//	@Summary		Remove the authenticator factor
//	@Description	Removes the factor. A valid current code is required.
//	@Tags			TOTP
//	@Security		SessionCookie
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CodeRequest			true	"Current authenticator code"
//	@Success		200		{object}	VerifiedResponse	"Factor removed"
//	@Failure		400		{object}	ErrorResponse		"Factor not active or incorrect code"
//	@Failure		401		{object}	ErrorResponse		"No valid session"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/v1/2fa/totp [delete].
func (h *TOTPHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	h.withCode(w, r, h.TOTPService.Disable)
}

// withCode factors out the decode / call / map-sentinels shape shared by the
// code-carrying TOTP endpoints.
func (h *TOTPHandler) withCode(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, p identity.Principal, code string) error,
) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		errUnauthorized.WriteError(w)
		return
	}

	var req CodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		errInvalidRequest.WriteError(w)
		return
	}

	if err := op(ctx, principal, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrTOTPAlreadyActive):
			errTOTPAlreadyActive.WriteError(w)
		case errors.Is(err, service.ErrTOTPNotEnrolled):
			errTOTPNotEnrolled.WriteError(w)
		case errors.Is(err, service.ErrTOTPNotActive):
			errTOTPNotActive.WriteError(w)
		case errors.Is(err, service.ErrIncorrectCode):
			log.Warn("incorrect authenticator code", "account_id", principal.AccountID)
			errIncorrectCode.WriteError(w)
		default:
			log.Error("authenticator operation failed", "account_id", principal.AccountID, "err", err)
			errServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, VerifiedResponse{Verified: true})
}
