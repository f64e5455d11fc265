package dto

import (
	"time"

	"github.com/tubeworks/streamapi/internal/model"
)

type PublishVideoRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=200"`
	Description string `form:"description" binding:"max=5000"`
}

type UpdateVideoRequest struct {
	Title       string `form:"title" binding:"omitempty,min=1,max=200"`
	Description string `form:"description" binding:"omitempty,max=5000"`
}

type VideoResponse struct {
	ID          uint      `json:"id"`
	OwnerID     uint      `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewVideoResponse(v *model.Video) VideoResponse {
	return VideoResponse{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// VideoOwnerResponse is the minimal owner projection nested in watch
// history entries.
type VideoOwnerResponse struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// WatchHistoryEntry is a video enriched with its owner's public identity,
// returned in the order the viewer watched them.
type WatchHistoryEntry struct {
	VideoResponse
	Owner VideoOwnerResponse `json:"owner"`
}

func NewWatchHistoryEntry(v *model.Video) WatchHistoryEntry {
	return WatchHistoryEntry{
		VideoResponse: NewVideoResponse(v),
		Owner: VideoOwnerResponse{
			Username: v.Owner.Username,
			Avatar:   v.Owner.Avatar,
		},
	}
}
