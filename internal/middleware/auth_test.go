package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/config"
	"github.com/tubeworks/streamapi/internal/constants"
	"github.com/tubeworks/streamapi/internal/model"
	"github.com/tubeworks/streamapi/internal/service"
)

type fakeViewerSource struct {
	users map[uint]*model.User
}

func (f *fakeViewerSource) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newAuthFixture(t *testing.T) (*AuthMiddleware, *service.TokenService) {
	t.Helper()
	tokens := service.NewTokenService(config.JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	user := &model.User{Username: "alice"}
	user.ID = 42
	source := &fakeViewerSource{users: map[uint]*model.User{42: user}}
	return NewAuthMiddleware(tokens, source), tokens
}

func newAuthRouter(t *testing.T, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"viewer_id": ViewerID(c)})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	auth, tokens := newAuthFixture(t)
	router := newAuthRouter(t, auth.RequireAuth())

	valid, err := tokens.IssueAccessToken(42)
	require.NoError(t, err)
	refresh, err := tokens.IssueRefreshToken(42)
	require.NoError(t, err)
	unknownUser, err := tokens.IssueAccessToken(999)
	require.NoError(t, err)

	tests := []struct {
		name       string
		cookie     string
		bearer     string
		wantStatus int
	}{
		{name: "no credentials", wantStatus: http.StatusUnauthorized},
		{name: "valid cookie", cookie: valid, wantStatus: http.StatusOK},
		{name: "valid bearer", bearer: valid, wantStatus: http.StatusOK},
		{name: "garbage cookie", cookie: "nonsense", wantStatus: http.StatusUnauthorized},
		{name: "refresh token is not an access token", bearer: refresh, wantStatus: http.StatusUnauthorized},
		{name: "token for deleted user", bearer: unknownUser, wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: constants.CookieAccessToken, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+" "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestOptionalAuth_NeverRejects(t *testing.T) {
	auth, tokens := newAuthFixture(t)
	router := newAuthRouter(t, auth.OptionalAuth())

	valid, err := tokens.IssueAccessToken(42)
	require.NoError(t, err)

	tests := []struct {
		name       string
		bearer     string
		wantViewer float64
	}{
		{name: "anonymous", wantViewer: 0},
		{name: "valid token resolves viewer", bearer: valid, wantViewer: 42},
		{name: "garbage token treated as anonymous", bearer: "nonsense", wantViewer: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.bearer != "" {
				req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+" "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"viewer_id":`)
			if tt.wantViewer == 0 {
				assert.Contains(t, rec.Body.String(), `"viewer_id":0`)
			} else {
				assert.Contains(t, rec.Body.String(), `"viewer_id":42`)
			}
		})
	}
}

func TestRequireAuth_CookieWinsOverBearer(t *testing.T) {
	auth, tokens := newAuthFixture(t)
	router := newAuthRouter(t, auth.RequireAuth())

	valid, err := tokens.IssueAccessToken(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieAccessToken, Value: valid})
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+" garbage")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
