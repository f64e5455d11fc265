package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubeworks/streamapi/config"
	"github.com/tubeworks/streamapi/internal/constants"
)

func newCookieTestHandler() *AuthHandler {
	cfg := &config.Config{}
	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 7 * 24 * time.Hour
	return NewAuthHandler(nil, cfg)
}

func responseCookies(t *testing.T, w *httptest.ResponseRecorder) map[string]*http.Cookie {
	t.Helper()
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	byName := make(map[string]*http.Cookie, len(cookies))
	for _, ck := range cookies {
		byName[ck.Name] = ck
	}
	return byName
}

func TestSessionCookies_StrictSecureHttpOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h := newCookieTestHandler()
	h.setSessionCookies(c, "the-access-token", "the-refresh-token")

	byName := responseCookies(t, w)
	for _, name := range []string{constants.CookieAccessToken, constants.CookieRefreshToken} {
		ck := byName[name]
		require.NotNil(t, ck, "cookie %s not set", name)
		assert.True(t, ck.Secure, "cookie %s must be Secure", name)
		assert.True(t, ck.HttpOnly, "cookie %s must be HttpOnly", name)
		assert.Equal(t, http.SameSiteStrictMode, ck.SameSite, "cookie %s must be SameSite=Strict", name)
		assert.Positive(t, ck.MaxAge, "cookie %s must carry its token's lifetime", name)
	}
	assert.Equal(t, "the-access-token", byName[constants.CookieAccessToken].Value)
	assert.Equal(t, "the-refresh-token", byName[constants.CookieRefreshToken].Value)
}

func TestClearSessionCookies_Expires(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h := newCookieTestHandler()
	h.clearSessionCookies(c)

	byName := responseCookies(t, w)
	for _, name := range []string{constants.CookieAccessToken, constants.CookieRefreshToken} {
		ck := byName[name]
		require.NotNil(t, ck, "cookie %s not cleared", name)
		assert.Empty(t, ck.Value)
		assert.Negative(t, ck.MaxAge)
		assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	}
}
