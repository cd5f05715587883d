package http

import (
	"net/http"

	"github.com/aussiebroadwan/authgate/pkg/httpx"
)

// ErrorResponse is the wire shape of every error this service emits.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// apiError pairs a wire error with its HTTP status so handlers can map
// service sentinels in one line.
type apiError struct {
	Status      int
	Code        string
	Description string
}

func (e apiError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.Status, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

var (
	errInvalidRequest = apiError{
		Status:      http.StatusBadRequest,
		Code:        "invalid_request",
		Description: "The request body is missing or malformed",
	}
	errUnauthorized = apiError{
		Status:      http.StatusUnauthorized,
		Code:        "unauthorized",
		Description: "The supplied credential is invalid or expired",
	}
	errThrottled = apiError{
		Status:      http.StatusTooManyRequests,
		Code:        "throttled",
		Description: "A code was issued recently; wait before requesting another",
	}
	errNoPendingChallenge = apiError{
		Status:      http.StatusBadRequest,
		Code:        "no_pending_challenge",
		Description: "There is no code waiting to be verified",
	}
	errExpiredCode = apiError{
		Status:      http.StatusBadRequest,
		Code:        "expired_code",
		Description: "The code has expired; request a new one",
	}
	errIncorrectCode = apiError{
		Status:      http.StatusBadRequest,
		Code:        "incorrect_code",
		Description: "The code does not match",
	}
	errTOTPAlreadyActive = apiError{
		Status:      http.StatusBadRequest,
		Code:        "totp_already_active",
		Description: "An authenticator app is already active for this account",
	}
	errTOTPNotEnrolled = apiError{
		Status:      http.StatusBadRequest,
		Code:        "totp_not_enrolled",
		Description: "No authenticator enrollment is in progress",
	}
	errTOTPNotActive = apiError{
		Status:      http.StatusBadRequest,
		Code:        "totp_not_active",
		Description: "No authenticator app is active for this account",
	}
	errServerError = apiError{
		Status:      http.StatusInternalServerError,
		Code:        "server_error",
		Description: "An internal error occurred",
	}
)
