package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tubeworks/streamapi/internal/constants"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
	"github.com/tubeworks/streamapi/internal/middleware"
	"github.com/tubeworks/streamapi/internal/service"
	ctxutil "github.com/tubeworks/streamapi/pkg/context"
)

// ChannelHandler serves public channel profiles and the viewer's watch
// history.
type ChannelHandler struct {
	channelService *service.ChannelService
	videoService   *service.VideoService
}

func NewChannelHandler(channelService *service.ChannelService, videoService *service.VideoService) *ChannelHandler {
	return &ChannelHandler{
		channelService: channelService,
		videoService:   videoService,
	}
}

// Profile returns a channel's public profile with subscription stats.
// Works for anonymous viewers; IsSubscribed is then always false.
func (h *ChannelHandler) Profile(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ChannelProfile")

	profile, err := h.channelService.Profile(ctx, c.Param("username"), middleware.ViewerID(c))
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to load channel", apperrors.GetErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, profile, "Channel fetched"))
}

// WatchHistory returns the viewer's watched videos in viewing order.
func (h *ChannelHandler) WatchHistory(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "WatchHistory")

	history, err := h.videoService.WatchHistory(ctx, middleware.ViewerID(c))
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to load watch history", apperrors.GetErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, history, "Watch history fetched"))
}
