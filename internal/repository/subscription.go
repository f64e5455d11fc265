package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/internal/model"
	ctxutil "github.com/tubeworks/streamapi/pkg/context"
)

// SubscriptionRepository reads the subscription edges feeding the channel
// statistics queries. Nothing here writes; edge maintenance is out of scope.
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// CountSubscribers counts edges where the given user is the channel.
func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CountSubscribers")

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}

// CountSubscribedTo counts edges where the given user is the subscriber.
func (r *SubscriptionRepository) CountSubscribedTo(ctx context.Context, subscriberID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "CountSubscribedTo")

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error
	return count, err
}

// IsSubscribed reports whether a subscription edge exists from the viewer to
// the channel.
func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "IsSubscribed")

	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}
