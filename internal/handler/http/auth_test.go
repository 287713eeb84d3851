package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			return c
		}
	}
	t.Fatal("refresh_token cookie not set")
	return nil
}

func TestLogin(t *testing.T) {
	app := newTestApp(t, 100)

	t.Run("valid credentials set the refresh cookie", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "jean", "password": testPassword})
		require.Equal(t, http.StatusCreated, rec.Code)

		cookie := refreshCookie(t, rec)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/api/v1/auth", cookie.Path)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "jean", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogin_RateLimited(t *testing.T) {
	app := newTestApp(t, 2)
	creds := map[string]string{"username": "jean", "password": "wrong"}

	for i := 0; i < 2; i++ {
		rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", errorCode(t, rec))

	// refresh is not limited
	rec = app.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": "x"})
	assert.NotEqual(t, http.StatusTooManyRequests, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	app := newTestApp(t, 100)

	rec := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "admin", "password": testPassword})
	require.Equal(t, http.StatusCreated, rec.Code)
	cookie := refreshCookie(t, rec)

	withCookie := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: cookie.Value})
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		return rec
	}

	rec = withCookie("/api/v1/auth/refresh")
	require.Equal(t, http.StatusCreated, rec.Code)
	var access struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, rec, &access)
	assert.NotEmpty(t, access.AccessToken)

	// the refresh token also works from a JSON body
	rec = app.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{"refresh_token": cookie.Value})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = withCookie("/api/v1/auth/logout")
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := refreshCookie(t, rec)
	assert.Empty(t, cleared.Value)

	rec = withCookie("/api/v1/auth/refresh")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefresh_MissingToken(t *testing.T) {
	app := newTestApp(t, 100)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGoogleSignIn_Disabled(t *testing.T) {
	app := newTestApp(t, 100)

	rec := app.do(t, http.MethodGet, "/api/v1/auth/login/oauth/google", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/v1/auth/oauth/callback/google?code=abc&state=xyz", "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=oauth_disabled")
}
