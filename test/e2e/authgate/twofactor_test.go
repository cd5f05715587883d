package authgate_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEmailPasscodeFlow(t *testing.T) {
	baseURL, container := setupContainer(t, relaxedRateLimits(baseEnv()))
	client := newClient(t)
	establishSession(t, client, baseURL, "acct_otp_flow")

	t.Run("issue returns receipt without the code", func(t *testing.T) {
		resp, raw := doJSON(t, client, http.MethodPost, baseURL+"/v1/2fa/otp", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var receipt struct {
			SentAt    time.Time `json:"sent_at"`
			ExpiresAt time.Time `json:"expires_at"`
		}
		require.NoError(t, json.Unmarshal(raw, &receipt))
		require.False(t, receipt.SentAt.IsZero())
		require.Equal(t, 10*time.Minute, receipt.ExpiresAt.Sub(receipt.SentAt))
	})

	t.Run("reissue within cooldown is throttled", func(t *testing.T) {
		resp, raw := doJSON(t, client, http.MethodPost, baseURL+"/v1/2fa/otp", nil)
		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		require.Equal(t, "throttled", errorCode(t, raw))
		require.NotEmpty(t, resp.Header.Get("Retry-After"))
	})

	t.Run("wrong code rejected without burning the challenge", func(t *testing.T) {
		code := lastLoggedPasscode(t, container)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		resp, raw := doJSON(t, client, http.MethodPost, baseURL+"/v1/2fa/otp/verify",
			map[string]string{"code": wrong})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "incorrect_code", errorCode(t, raw))
	})

	t.Run("logged code verifies exactly once", func(t *testing.T) {
		code := lastLoggedPasscode(t, container)

		resp, raw := doJSON(t, client, http.MethodPost, baseURL+"/v1/2fa/otp/verify",
			map[string]string{"code": code})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Verified bool `json:"verified"`
		}
		require.NoError(t, json.Unmarshal(raw, &body))
		require.True(t, body.Verified)

		// Replay fails: the challenge is single use.
		resp, raw = doJSON(t, client, http.MethodPost, baseURL+"/v1/2fa/otp/verify",
			map[string]string{"code": code})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "no_pending_challenge", errorCode(t, raw))
	})
}

func TestTwoFactorToggle(t *testing.T) {
	baseURL, _ := setupContainer(t, relaxedRateLimits(baseEnv()))
	client := newClient(t)
	establishSession(t, client, baseURL, "acct_toggle")

	setEnabled := func(enabled bool) (int, []byte) {
		resp, raw := doJSON(t, client, http.MethodPut, baseURL+"/v1/2fa",
			map[string]bool{"enabled": enabled})
		return resp.StatusCode, raw
	}

	t.Run("enable and disable", func(t *testing.T) {
		status, raw := setEnabled(true)
		require.Equal(t, http.StatusOK, status)

		var body struct {
			TwoFactorEnabled bool `json:"two_factor_enabled"`
		}
		require.NoError(t, json.Unmarshal(raw, &body))
		require.True(t, body.TwoFactorEnabled)

		status, raw = setEnabled(false)
		require.Equal(t, http.StatusOK, status)
		require.NoError(t, json.Unmarshal(raw, &body))
		require.False(t, body.TwoFactorEnabled)
	})

	t.Run("disable discards a pending code", func(t *testing.T) {
		resp, _ := doJSON(t, client, http.MethodPost, baseURL+"/v1/2fa/otp", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		status, _ := setEnabled(false)
		require.Equal(t, http.StatusOK, status)

		resp, raw := doJSON(t, client, http.MethodPost, baseURL+"/v1/2fa/otp/verify",
			map[string]string{"code": "123456"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "no_pending_challenge", errorCode(t, raw))
	})

	t.Run("missing enabled field rejected", func(t *testing.T) {
		resp, raw := doJSON(t, client, http.MethodPut, baseURL+"/v1/2fa", map[string]string{})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, "invalid_request", errorCode(t, raw))
	})
}
