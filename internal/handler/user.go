package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tubeworks/streamapi/config"
	"github.com/tubeworks/streamapi/internal/constants"
	"github.com/tubeworks/streamapi/internal/dto"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
	"github.com/tubeworks/streamapi/internal/middleware"
	"github.com/tubeworks/streamapi/internal/service"
	ctxutil "github.com/tubeworks/streamapi/pkg/context"
	"github.com/tubeworks/streamapi/pkg/validation"
)

// UserHandler owns the authenticated profile endpoints.
type UserHandler struct {
	userService *service.UserService
	cfg         *config.Config
}

func NewUserHandler(userService *service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: userService,
		cfg:         cfg,
	}
}

// CurrentUser returns the viewer's own profile.
func (h *UserHandler) CurrentUser(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CurrentUser")

	user, err := h.userService.CurrentUser(ctx, middleware.ViewerID(c))
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to load profile", apperrors.GetErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, user, "Current user fetched"))
}

// UpdateDetails changes the viewer's username and/or email.
func (h *UserHandler) UpdateDetails(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateDetails")

	var req dto.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, validation.Messages(err)...))
		return
	}

	user, err := h.userService.UpdateDetails(ctx, middleware.ViewerID(c), req)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to update details", apperrors.GetErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, user, "Account details updated"))
}

// UpdateAvatar replaces the viewer's avatar from a multipart upload.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.replaceImage(c, constants.FormFieldAvatar, h.userService.UpdateAvatar, "Avatar updated")
}

// UpdateCoverImage replaces the viewer's cover image.
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.replaceImage(c, constants.FormFieldCoverImage, h.userService.UpdateCoverImage, "Cover image updated")
}

func (h *UserHandler) replaceImage(
	c *gin.Context,
	field string,
	update func(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error),
	message string,
) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateImage")

	staged, err := stageFormFile(c, field, h.cfg.Upload.TempDir)
	if err != nil {
		respondStageError(c, err)
		return
	}
	if staged == nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, field+" file is required"))
		return
	}
	defer staged.Remove(ctx)

	user, err := update(ctx, middleware.ViewerID(c), staged.Path)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to update image", apperrors.GetErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, user, message))
}
