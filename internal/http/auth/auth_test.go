package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicevault/internal/http/auth"
)

func TestSessions_RoundTrip(t *testing.T) {
	sessions := auth.NewSessions("test-secret", time.Hour)

	token, err := sessions.Issue("admin")
	require.NoError(t, err)

	subject, err := sessions.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestSessions_RejectsExpiredToken(t *testing.T) {
	sessions := auth.NewSessions("test-secret", -time.Hour)

	token, err := sessions.Issue("admin")
	require.NoError(t, err)

	_, err = sessions.Verify(token)
	assert.Error(t, err)
}

func TestSessions_RejectsForeignSecret(t *testing.T) {
	token, err := auth.NewSessions("secret-a", time.Hour).Issue("admin")
	require.NoError(t, err)

	_, err = auth.NewSessions("secret-b", time.Hour).Verify(token)
	assert.Error(t, err)
}

func newHandler() *auth.Handler {
	return auth.NewHandler("admin", "hunter2", auth.NewSessions("test-secret", time.Hour))
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin","password":"hunter2"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestMiddleware(t *testing.T) {
	h := newHandler()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	gated := h.Middleware(next)

	t.Run("NoCookieAPICall", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
		rec := httptest.NewRecorder()

		gated.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
	})

	t.Run("NoCookiePageLoad", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		gated.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("ValidCookie", func(t *testing.T) {
		token, err := auth.NewSessions("test-secret", time.Hour).Issue("admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		rec := httptest.NewRecorder()

		gated.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("GarbageCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "not-a-token"})
		rec := httptest.NewRecorder()

		gated.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogout_ClearsCookieAndRedirects(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
