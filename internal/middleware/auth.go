package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/internal/constants"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
	"github.com/tubeworks/streamapi/internal/model"
	"github.com/tubeworks/streamapi/internal/service"
	ctxutil "github.com/tubeworks/streamapi/pkg/context"
	"github.com/tubeworks/streamapi/pkg/logger"
)

// ViewerSource looks up the user a verified token points at. Satisfied by
// repository.UserRepository.
type ViewerSource interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

// AuthMiddleware resolves the viewer behind a request from the access
// token, delivered either as the accessToken cookie or a Bearer header.
// The cookie wins when both are present.
type AuthMiddleware struct {
	tokens *service.TokenService
	users  ViewerSource
}

func NewAuthMiddleware(tokens *service.TokenService, users ViewerSource) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
	}
}

// RequireAuth rejects the request with 401 unless a valid access token
// resolves to an existing user.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "middleware", "RequireAuth")

		raw := extractAccessToken(c)
		if raw == "" {
			abortUnauthorized(c, apperrors.ErrMissingToken)
			return
		}

		viewer, err := m.resolveViewer(ctx, raw)
		if err != nil {
			logger.WarnWithContext(ctx, "Access token rejected").
				Err(err).
				Log()
			abortUnauthorized(c, err)
			return
		}

		attachViewer(c, viewer)
		c.Next()
	}
}

// OptionalAuth resolves the viewer when a valid token is present and
// otherwise lets the request through anonymously. It never rejects.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "middleware", "OptionalAuth")

		if raw := extractAccessToken(c); raw != "" {
			if viewer, err := m.resolveViewer(ctx, raw); err == nil {
				attachViewer(c, viewer)
			}
		}
		c.Next()
	}
}

func (m *AuthMiddleware) resolveViewer(ctx context.Context, raw string) (*model.User, error) {
	userID, err := m.tokens.Verify(raw, service.TokenAccess)
	if err != nil {
		return nil, err
	}
	viewer, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return viewer, nil
}

func extractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(constants.CookieAccessToken); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader(constants.HeaderAuthorization)
	if after, ok := strings.CutPrefix(header, constants.BearerPrefix+" "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

func attachViewer(c *gin.Context, viewer *model.User) {
	c.Set(constants.GinKeyViewer, viewer)
	c.Set(constants.GinKeyViewerID, viewer.ID)
	c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), viewer.ID))
}

func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		constants.BuildErrorResponse(http.StatusUnauthorized, constants.MsgUnauthorized, apperrors.GetErrorMessage(err)))
}

// ViewerID reads the authenticated viewer's ID from the gin context. Zero
// means anonymous.
func ViewerID(c *gin.Context) uint {
	if id, ok := c.Get(constants.GinKeyViewerID); ok {
		if uid, ok := id.(uint); ok {
			return uid
		}
	}
	return 0
}
