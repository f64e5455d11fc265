package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/internal/model"
	"github.com/tubeworks/streamapi/internal/pipeline"
	ctxutil "github.com/tubeworks/streamapi/pkg/context"
	"github.com/tubeworks/streamapi/pkg/logger"
)

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create video").
			Uint("owner_id", video.OwnerID).
			Err(err).
			Log()
		return err
	}
	return nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id uint) (*model.Video, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var video model.Video
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// List runs a constructed listing pipeline against the videos collection.
func (r *VideoRepository) List(ctx context.Context, listing *pipeline.Listing) (*pipeline.Result, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "List")

	result, err := listing.Run(r.db.WithContext(ctx))
	if err != nil {
		logger.ErrorWithContext(ctx, "Listing pipeline failed").
			Err(err).
			Log()
		return nil, err
	}
	return result, nil
}

// ListByIDs fetches the given videos with their owners preloaded. Row order
// is unspecified; callers reorder as needed.
func (r *VideoRepository) ListByIDs(ctx context.Context, ids []uint) ([]model.Video, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ListByIDs")

	if len(ids) == 0 {
		return nil, nil
	}

	var videos []model.Video
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id IN ?", ids).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// UpdateFields applies a partial update to one video.
func (r *VideoRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateFields")

	return r.db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *VideoRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Delete")

	return r.db.WithContext(ctx).Delete(&model.Video{}, id).Error
}

// IncrementViews bumps the view counter by one in a single atomic update.
func (r *VideoRepository) IncrementViews(ctx context.Context, id uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "IncrementViews")

	return r.db.WithContext(ctx).Model(&model.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
