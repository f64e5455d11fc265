package handler

import (
	"net/http"
	"strconv"

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

// VideoHandler owns the video catalogue endpoints.
type VideoHandler struct {
	videoService *service.VideoService
	cfg          *config.Config
}

func NewVideoHandler(videoService *service.VideoService, cfg *config.Config) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		cfg:          cfg,
	}
}

// List serves the video listing with filtering, search, sorting and
// pagination from query parameters.
func (h *VideoHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ListVideos")

	params := constants.ParseListParams(c)
	result, err := h.videoService.List(ctx, params, middleware.ViewerID(c))
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to list videos", apperrors.GetErrorMessage(err)))
		return
	}

	docs := make([]dto.VideoResponse, 0, len(result.Docs))
	for i := range result.Docs {
		docs = append(docs, dto.NewVideoResponse(&result.Docs[i]))
	}
	payload := constants.BuildListPayload(result.Total, result.Page, result.PageTotal, docs)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, payload, "Videos fetched"))
}

// Get serves a single video. Reads by non-owners count a view.
func (h *VideoHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetVideo")

	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	video, err := h.videoService.Get(ctx, videoID, middleware.ViewerID(c))
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to load video", apperrors.GetErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, video, "Video fetched"))
}

// Publish ingests a new video from a multipart form. The video file and
// thumbnail are both required.
func (h *VideoHandler) Publish(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "PublishVideo")

	var req dto.PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, validation.Messages(err)...))
		return
	}

	videoFile, err := stageFormFile(c, constants.FormFieldVideoFile, h.cfg.Upload.TempDir)
	if err != nil {
		respondStageError(c, err)
		return
	}
	if videoFile == nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, "video file is required"))
		return
	}
	defer videoFile.Remove(ctx)

	thumbnail, err := stageFormFile(c, constants.FormFieldThumbnail, h.cfg.Upload.TempDir)
	if err != nil {
		respondStageError(c, err)
		return
	}
	if thumbnail == nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, "thumbnail file is required"))
		return
	}
	defer thumbnail.Remove(ctx)

	logger.InfoWithContext(ctx, "Video upload received").
		String("title", req.Title).
		Log()

	video, err := h.videoService.Publish(ctx, middleware.ViewerID(c), req, videoFile.Path, thumbnail.Path)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to publish video", apperrors.GetErrorMessage(err)))
		return
	}
	c.JSON(http.StatusCreated, constants.BuildSuccessResponse(http.StatusCreated, video, "Video published successfully"))
}

// Update edits title, description and/or thumbnail of an owned video.
func (h *VideoHandler) Update(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "UpdateVideo")

	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	var req dto.UpdateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(http.StatusBadRequest, constants.MsgBadRequest, validation.Messages(err)...))
		return
	}

	thumbnail, err := stageFormFile(c, constants.FormFieldThumbnail, h.cfg.Upload.TempDir)
	if err != nil {
		respondStageError(c, err)
		return
	}
	defer thumbnail.Remove(ctx)

	thumbnailPath := ""
	if thumbnail != nil {
		thumbnailPath = thumbnail.Path
	}

	video, err := h.videoService.Update(ctx, videoID, middleware.ViewerID(c), req, thumbnailPath)
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to update video", apperrors.GetErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, video, "Video updated"))
}

// Delete removes an owned video and requests cleanup of its media.
func (h *VideoHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "DeleteVideo")

	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	if err := h.videoService.Delete(ctx, videoID, middleware.ViewerID(c)); err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to delete video", apperrors.GetErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, nil, "Video deleted"))
}

// TogglePublish flips the published flag of an owned video.
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "TogglePublish")

	videoID, ok := h.videoID(c)
	if !ok {
		return
	}

	video, err := h.videoService.TogglePublish(ctx, videoID, middleware.ViewerID(c))
	if err != nil {
		status := apperrors.ToHTTPStatus(err)
		c.JSON(status, constants.BuildErrorResponse(status, "Failed to toggle publish state", apperrors.GetErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(http.StatusOK, video, "Publish state toggled"))
}

// videoID parses the :videoId path parameter. Malformed IDs never reach
// the database.
func (h *VideoHandler) videoID(c *gin.Context) (uint, bool) {
	raw := c.Param("videoId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		status := apperrors.ToHTTPStatus(apperrors.ErrInvalidID)
		c.JSON(status, constants.BuildErrorResponse(status, constants.MsgBadRequest, apperrors.GetErrorMessage(apperrors.ErrInvalidID)))
		return 0, false
	}
	return uint(id), true
}
