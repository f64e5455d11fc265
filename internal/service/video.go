package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/internal/constants"
	"github.com/tubeworks/streamapi/internal/dto"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
	"github.com/tubeworks/streamapi/internal/model"
	"github.com/tubeworks/streamapi/internal/pipeline"
	"github.com/tubeworks/streamapi/internal/repository"
	ctxutil "github.com/tubeworks/streamapi/pkg/context"
	"github.com/tubeworks/streamapi/pkg/logger"
	"github.com/tubeworks/streamapi/pkg/storage"
)

// VideoService owns the video catalogue. Reads by anyone other than the
// owner produce side effects (view counts, watch history) that run in the
// background and never fail the read itself.
type VideoService struct {
	videos *repository.VideoRepository
	users  *repository.UserRepository
	media  MediaStore
	prober DurationProber
	queue  TaskSubmitter
}

func NewVideoService(videos *repository.VideoRepository, users *repository.UserRepository, media MediaStore, prober DurationProber, queue TaskSubmitter) *VideoService {
	return &VideoService{
		videos: videos,
		users:  users,
		media:  media,
		prober: prober,
		queue:  queue,
	}
}

// List runs the listing pipeline for the given query parameters. The
// viewer ID widens visibility only when the viewer filters for their own
// uploads.
func (s *VideoService) List(ctx context.Context, params constants.ListParams, viewerID uint) (*pipeline.Result, error) {
	ctx = ctxutil.WithOperation(ctx, "video", "List")

	listing, err := pipeline.BuildListing(params, viewerID)
	if err != nil {
		return nil, err
	}
	result, err := s.videos.List(ctx, listing)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return result, nil
}

// Get returns one video. Unpublished videos are visible to their owner
// only. A read by anyone but the owner increments the view count, and a
// read by an authenticated non-owner is recorded in that viewer's watch
// history; both happen asynchronously.
func (s *VideoService) Get(ctx context.Context, videoID, viewerID uint) (*dto.VideoResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "video", "Get")

	video, err := s.getVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperrors.ErrForbidden
	}

	if video.OwnerID != viewerID {
		s.queue.Submit(fmt.Sprintf("video.count_view.%d", videoID), func(taskCtx context.Context) error {
			return s.videos.IncrementViews(taskCtx, videoID)
		})
		if viewerID != 0 {
			s.queue.Submit(fmt.Sprintf("video.record_watch.%d", videoID), func(taskCtx context.Context) error {
				return s.users.AppendWatchHistory(taskCtx, viewerID, videoID)
			})
		}
	}

	resp := dto.NewVideoResponse(video)
	return &resp, nil
}

// Publish ingests a staged upload: the duration is probed from the local
// file, both assets go to the object store, and only then is the record
// created. The caller removes the staged files afterwards regardless of
// outcome.
func (s *VideoService) Publish(ctx context.Context, ownerID uint, req dto.PublishVideoRequest, videoPath, thumbnailPath string) (*dto.VideoResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "video", "Publish")

	duration, err := s.prober.Duration(ctx, videoPath)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrUpstream, err)
	}

	videoURL, err := s.media.Upload(ctx, videoPath, storage.AssetVideo)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrUpstream, err)
	}
	thumbnailURL, err := s.media.Upload(ctx, thumbnailPath, storage.AssetImage)
	if err != nil {
		s.deleteMediaLater("video.rollback_file", videoURL)
		return nil, apperrors.WrapError(apperrors.ErrUpstream, err)
	}

	video := &model.Video{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Duration:    duration,
		IsPublished: true,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		s.deleteMediaLater("video.rollback_file", videoURL)
		s.deleteMediaLater("video.rollback_thumbnail", thumbnailURL)
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Video published").
		Uint("video_id", video.ID).
		Uint("owner_id", ownerID).
		Float64("duration", duration).
		Log()

	resp := dto.NewVideoResponse(video)
	return &resp, nil
}

// Update changes the title, description and/or thumbnail of an owned
// video. A replaced thumbnail is reclaimed in the background.
func (s *VideoService) Update(ctx context.Context, videoID, viewerID uint, req dto.UpdateVideoRequest, thumbnailPath string) (*dto.VideoResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "video", "Update")

	video, err := s.getOwned(ctx, videoID, viewerID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != "" {
		fields["title"] = req.Title
		video.Title = req.Title
	}
	if req.Description != "" {
		fields["description"] = req.Description
		video.Description = req.Description
	}

	oldThumbnail := ""
	if thumbnailPath != "" {
		url, err := s.media.Upload(ctx, thumbnailPath, storage.AssetImage)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrUpstream, err)
		}
		fields["thumbnail"] = url
		oldThumbnail = video.Thumbnail
		video.Thumbnail = url
	}

	if len(fields) == 0 {
		return nil, apperrors.NewDomainError("VALIDATION_ERROR", "nothing to update")
	}
	if err := s.videos.UpdateFields(ctx, videoID, fields); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.deleteMediaLater("video.reclaim_thumbnail", oldThumbnail)

	resp := dto.NewVideoResponse(video)
	return &resp, nil
}

// Delete removes an owned video. Its stored media files are reclaimed in
// the background after the row is gone.
func (s *VideoService) Delete(ctx context.Context, videoID, viewerID uint) error {
	ctx = ctxutil.WithOperation(ctx, "video", "Delete")

	video, err := s.getOwned(ctx, videoID, viewerID)
	if err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.deleteMediaLater("video.reclaim_file", video.VideoFile)
	s.deleteMediaLater("video.reclaim_thumbnail", video.Thumbnail)

	logger.InfoWithContext(ctx, "Video deleted").
		Uint("video_id", videoID).
		Uint("owner_id", viewerID).
		Log()
	return nil
}

// TogglePublish flips the published flag of an owned video and returns
// the new state.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, viewerID uint) (*dto.VideoResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "video", "TogglePublish")

	video, err := s.getOwned(ctx, videoID, viewerID)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.videos.UpdateFields(ctx, videoID, map[string]any{"is_published": video.IsPublished}); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := dto.NewVideoResponse(video)
	return &resp, nil
}

// WatchHistory returns the viewer's watched videos in viewing order,
// each enriched with its owner's public identity. Videos deleted since
// they were watched are silently skipped.
func (s *VideoService) WatchHistory(ctx context.Context, viewerID uint) ([]dto.WatchHistoryEntry, error) {
	ctx = ctxutil.WithOperation(ctx, "video", "WatchHistory")

	if viewerID == 0 {
		return nil, apperrors.ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	entries := make([]dto.WatchHistoryEntry, 0, len(user.WatchHistory))
	if len(user.WatchHistory) == 0 {
		return entries, nil
	}

	videos, err := s.videos.ListByIDs(ctx, user.WatchHistory)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// The repository returns rows in arbitrary order; the stored list
	// dictates the order the caller sees.
	byID := make(map[uint]*model.Video, len(videos))
	for i := range videos {
		byID[videos[i].ID] = &videos[i]
	}
	for _, id := range user.WatchHistory {
		if v, ok := byID[id]; ok {
			entries = append(entries, dto.NewWatchHistoryEntry(v))
		}
	}
	return entries, nil
}

func (s *VideoService) getVideo(ctx context.Context, videoID uint) (*model.Video, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return video, nil
}

func (s *VideoService) getOwned(ctx context.Context, videoID, viewerID uint) (*model.Video, error) {
	video, err := s.getVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != viewerID {
		return nil, apperrors.ErrForbidden
	}
	return video, nil
}

func (s *VideoService) deleteMediaLater(name, publicURL string) {
	if publicURL == "" || s.queue == nil {
		return
	}
	s.queue.Submit(name, func(ctx context.Context) error {
		return s.media.Delete(ctx, publicURL)
	})
}
