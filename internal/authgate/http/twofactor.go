package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/authgate/internal/authgate/service"
	"github.com/aussiebroadwan/authgate/pkg/httpx"
	"github.com/aussiebroadwan/authgate/pkg/slogx"
)

// retryAfterSeconds rounds up so a client honoring the header never retries
// inside the window.
func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// CodeRequest carries a submitted one-time code.
type CodeRequest struct {
	Code string `json:"code"`
}

// VerifiedResponse acknowledges a successful code check.
type VerifiedResponse struct {
	Verified bool `json:"verified"`
}

// TwoFactorToggleRequest flips the enablement flag.
type TwoFactorToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// TwoFactorStatusResponse reports the current enablement state.
type TwoFactorStatusResponse struct {
	TwoFactorEnabled bool `json:"two_factor_enabled"`
}

// TwoFactorHandler handles the emailed passcode lifecycle and the toggle.
type TwoFactorHandler struct {
	TwoFactorService *service.TwoFactorService
}

// HandleIssue handles POST /v1/2fa/otp
//
//	@Summary		Issue an emailed passcode
//	@Description	Generates a one-time passcode, emails it to the account holder and returns the issuance timestamps. The code itself is never returned.
//	@Tags			TwoFactor
//	@Security		SessionCookie
//	@Produce		json
//	@Success		200	{object}	domain.ChallengeReceipt	"sent_at and expires_at"
//	@Failure		401	{object}	ErrorResponse			"No valid session"
//	@Failure		429	{object}	ErrorResponse			"Issued too recently"
//	@Failure		500	{object}	ErrorResponse			"Storage or delivery failure"
//	@Router			/v1/2fa/otp [post].
func (h *TwoFactorHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		errUnauthorized.WriteError(w)
		return
	}

	receipt, err := h.TwoFactorService.IssueCode(ctx, principal)
	if err != nil {
		if errors.Is(err, service.ErrThrottled) {
			// Report the time remaining, not the full window, so a client
			// retrying promptly does not over-wait.
			retry := h.TwoFactorService.CooldownWindow()
			var throttled *service.ThrottledError
			if errors.As(err, &throttled) {
				retry = throttled.RetryAfter
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(retry)))
			errThrottled.WriteError(w)
			return
		}
		log.Error("failed to issue passcode", "account_id", principal.AccountID, "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, receipt)
}

// HandleVerify handles POST /v1/2fa/otp/verify
//
//	@Summary		Verify an emailed passcode
//	@Description	Redeems the pending passcode. A code verifies at most once.
//	@Tags			TwoFactor
//	@Security		SessionCookie
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CodeRequest			true	"Submitted code"
//	@Success		200		{object}	VerifiedResponse	"Code accepted"
//	@Failure		400		{object}	ErrorResponse		"Missing, malformed, expired or incorrect code"
//	@Failure		401		{object}	ErrorResponse		"No valid session"
//	@Failure		500		{object}	ErrorResponse		"Internal server error"
//	@Router			/v1/2fa/otp/verify [post].
func (h *TwoFactorHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
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

	if err := h.TwoFactorService.VerifyCode(ctx, principal, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedCode):
			errInvalidRequest.WriteError(w)
		case errors.Is(err, service.ErrNoPendingChallenge):
			errNoPendingChallenge.WriteError(w)
		case errors.Is(err, service.ErrExpiredCode):
			errExpiredCode.WriteError(w)
		case errors.Is(err, service.ErrIncorrectCode):
			log.Warn("incorrect passcode submitted", "account_id", principal.AccountID)
			errIncorrectCode.WriteError(w)
		default:
			log.Error("failed to verify passcode", "account_id", principal.AccountID, "err", err)
			errServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, VerifiedResponse{Verified: true})
}

// HandleSetEnabled handles PUT /v1/2fa
//
//	@Summary		Enable or disable two-factor
//	@Description	Sets the enablement flag. Disabling also discards any pending passcode.
//	@Tags			TwoFactor
//	@Security		SessionCookie
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TwoFactorToggleRequest	true	"Desired state"
//	@Success		200		{object}	TwoFactorStatusResponse	"Resulting state"
//	@Failure		400		{object}	ErrorResponse			"Missing or malformed body"
//	@Failure		401		{object}	ErrorResponse			"No valid session"
//	@Failure		500		{object}	ErrorResponse			"Internal server error"
//	@Router			/v1/2fa [put].
func (h *TwoFactorHandler) HandleSetEnabled(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		errUnauthorized.WriteError(w)
		return
	}

	var req TwoFactorToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		log.Warn("failed to parse request", "err", err)
		errInvalidRequest.WriteError(w)
		return
	}

	acct, err := h.TwoFactorService.SetEnabled(ctx, principal, *req.Enabled)
	if err != nil {
		log.Error("failed to toggle two-factor", "account_id", principal.AccountID, "err", err)
		errServerError.WriteError(w)
		return
	}

	log.Info("two-factor toggled", "account_id", acct.ID, "enabled", acct.TwoFactorEnabled)
	httpx.WriteJSON(w, http.StatusOK, TwoFactorStatusResponse{TwoFactorEnabled: acct.TwoFactorEnabled})
}
