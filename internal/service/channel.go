package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/internal/dto"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
	"github.com/tubeworks/streamapi/internal/repository"
	ctxutil "github.com/tubeworks/streamapi/pkg/context"
	"github.com/tubeworks/streamapi/pkg/logger"
	"github.com/tubeworks/streamapi/pkg/redis"
)

// ChannelService computes public channel profiles. Subscription counts are
// derived on demand and cached briefly in Redis; the cache key includes the
// viewer because IsSubscribed is viewer-relative.
type ChannelService struct {
	users    *repository.UserRepository
	subs     *repository.SubscriptionRepository
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewChannelService(users *repository.UserRepository, subs *repository.SubscriptionRepository, cache *redis.Client, cacheTTL time.Duration) *ChannelService {
	return &ChannelService{
		users:    users,
		subs:     subs,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Profile resolves a channel by username and attaches its subscription
// statistics. viewerID zero means an anonymous viewer, for whom
// IsSubscribed is always false.
func (s *ChannelService) Profile(ctx context.Context, username string, viewerID uint) (*dto.ChannelProfileResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "channel", "Profile")

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.NewDomainError("VALIDATION_ERROR", "username is required")
	}

	cacheKey := fmt.Sprintf("channel:%s:viewer:%d", username, viewerID)
	if s.cache != nil {
		var cached dto.ChannelProfileResponse
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			logger.WarnWithContext(ctx, "Channel cache read failed").
				String("key", cacheKey).
				Err(err).
				Log()
		}
	}

	channel, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrChannelNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	subscribers, err := s.subs.CountSubscribers(ctx, channel.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	subscribedTo, err := s.subs.CountSubscribedTo(ctx, channel.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	isSubscribed := false
	if viewerID != 0 {
		isSubscribed, err = s.subs.IsSubscribed(ctx, viewerID, channel.ID)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	profile := &dto.ChannelProfileResponse{
		ID:              channel.ID,
		Username:        channel.Username,
		FullName:        channel.FullName,
		Avatar:          channel.Avatar,
		CoverImage:      channel.CoverImage,
		SubscriberCount: subscribers,
		SubscribedCount: subscribedTo,
		IsSubscribed:    isSubscribed,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, profile, s.cacheTTL); err != nil {
			logger.WarnWithContext(ctx, "Channel cache write failed").
				String("key", cacheKey).
				Err(err).
				Log()
		}
	}
	return profile, nil
}
