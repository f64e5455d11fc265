package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tubeworks/streamapi/config"
	"github.com/tubeworks/streamapi/internal/constants"
	"github.com/tubeworks/streamapi/internal/dto"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
	"github.com/tubeworks/streamapi/internal/middleware"
	"github.com/tubeworks/streamapi/internal/service"
	ctxutil "github.com/tubeworks/streamapi/pkg/context"
	"github.com/tubeworks/streamapi/pkg/logger"
	"github.com/tubeworks/streamapi/pkg/validation"
)

// AuthHandler owns the account and session endpoints. Tokens are returned
// in the body and also set as HttpOnly cookies so browser and API clients
// get the same contract.
type AuthHandler struct {
	userService *service.UserService
	cfg         *config.Config
}

func NewAuthHandler(userService *service.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		cfg:         cfg,
	}
}

// Register handles account creation from a multipart form. The avatar is
// required, the cover image optional; both are staged locally and removed
// once the service is done with them.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid registration request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, validation.Messages(err)...))
		return
	}

	avatar, err := stageFormFile(c, constants.FormFieldAvatar, h.cfg.Upload.TempDir)
	if err != nil {
		respondStageError(c, err)
		return
	}
	if avatar == nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, "avatar file is required"))
		return
	}
	defer avatar.Remove(ctx)

	cover, err := stageFormFile(c, constants.FormFieldCoverImage, h.cfg.Upload.TempDir)
	if err != nil {
		respondStageError(c, err)
		return
	}
	defer cover.Remove(ctx)

	coverPath := ""
	if cover != nil {
		coverPath = cover.Path
	}

	user, err := h.userService.Register(ctx, req, avatar.Path, coverPath)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Registration failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, constants.BuildSuccessResponse(http.StatusCreated, user, "User registered successfully"))
}

// Login authenticates by username or email and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid login request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, validation.Messages(err)...))
		return
	}

	response, err := h.userService.Login(ctx, req)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			String("username", req.Username).
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Authentication failed", apperrors.GetErrorMessage(err)))
		return
	}

	h.setSessionCookies(c, response.AccessToken, response.RefreshToken)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, response, "Logged in successfully"))
}

// RefreshToken rotates the session token pair. The refresh token comes
// from the cookie or, failing that, the JSON body.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	raw, _ := c.Cookie(constants.CookieRefreshToken)
	if raw == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			raw = req.RefreshToken
		}
	}
	if raw == "" {
		status := apperrors.ToHTTPStatus(apperrors.ErrMissingToken)
		c.JSON(status, constants.BuildErrorResponse(status, "Token refresh failed", apperrors.GetErrorMessage(apperrors.ErrMissingToken)))
		return
	}

	pair, err := h.userService.RefreshSession(ctx, raw)
	if err != nil {
		logger.WarnWithContext(ctx, "Token refresh failed").
			Err(err).
			Log()
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Token refresh failed", apperrors.GetErrorMessage(err)))
		return
	}

	h.setSessionCookies(c, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, pair, "Session refreshed"))
}

// Logout ends the session and clears the session cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	viewerID := middleware.ViewerID(c)
	if err := h.userService.Logout(ctx, viewerID); err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Logout failed", apperrors.GetErrorMessage(err)))
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, nil, "Logged out successfully"))
}

// ChangePassword verifies the current password and installs a new one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChangePassword")

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, validation.Messages(err)...))
		return
	}

	viewerID := middleware.ViewerID(c)
	if err := h.userService.ChangePassword(ctx, viewerID, req); err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Password change failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, nil, "Password changed successfully"))
}

// Session cookies are always Strict, HttpOnly and Secure, for every
// environment; the tokens are also returned in the body for clients that
// cannot use cookies.
func (h *AuthHandler) setSessionCookies(c *gin.Context, access, refresh string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.CookieAccessToken, access, int(h.cfg.JWT.AccessTTL.Seconds()), "/", "", true, true)
	c.SetCookie(constants.CookieRefreshToken, refresh, int(h.cfg.JWT.RefreshTTL.Seconds()), "/", "", true, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.CookieAccessToken, "", -1, "/", "", true, true)
	c.SetCookie(constants.CookieRefreshToken, "", -1, "/", "", true, true)
}
