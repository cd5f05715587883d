package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/authgate/pkg/identity"
)

type stubVerifier struct {
	principal identity.Principal
	err       error
}

func (s stubVerifier) Verify(token string) (identity.Principal, error) {
	if s.err != nil {
		return identity.Principal{}, s.err
	}
	return s.principal, nil
}

const testCookie = "test_session"

func authedHandler(t *testing.T, sawPrincipal *identity.Principal) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		*sawPrincipal = p
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionAuth_ValidCookie(t *testing.T) {
	var saw identity.Principal
	v := stubVerifier{principal: identity.Principal{AccountID: "acct_1", Email: "a@b.c"}}
	h := Chain(authedHandler(t, &saw), SessionAuth(v, testCookie))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "token"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "acct_1", saw.AccountID)
}

func TestSessionAuth_MissingCookie(t *testing.T) {
	v := stubVerifier{principal: identity.Principal{AccountID: "acct_1"}}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}), SessionAuth(v, testCookie))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "unauthorized")
}

func TestSessionAuth_RejectedToken(t *testing.T) {
	v := stubVerifier{err: errors.New("bad token")}
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}), SessionAuth(v, testCookie))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "stale"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
