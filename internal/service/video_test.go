package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/tubeworks/streamapi/internal/errors"
	"github.com/tubeworks/streamapi/internal/model"
	"github.com/tubeworks/streamapi/internal/repository"
)

type fakeProber struct {
	duration float64
}

func (f fakeProber) Duration(context.Context, string) (float64, error) {
	return f.duration, nil
}

func newVideoServiceFixture(t *testing.T) (*VideoService, *repository.VideoRepository, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	videos := repository.NewVideoRepository(db)
	users := repository.NewUserRepository(db)
	svc := NewVideoService(videos, users, &fakeMediaStore{}, fakeProber{duration: 42}, syncQueue{})
	return svc, videos, db
}

func seedVideo(t *testing.T, db *gorm.DB, ownerID uint, title string) *model.Video {
	t.Helper()

	video := &model.Video{
		OwnerID:     ownerID,
		Title:       title,
		VideoFile:   "https://cdn.test/" + title + ".mp4",
		IsPublished: true,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func TestVideoService_WatchHistory_FollowsViewingOrder(t *testing.T) {
	svc, _, db := newVideoServiceFixture(t)
	ctx := context.Background()

	owner := seedAccount(t, db, "creator", "pw")
	viewer := seedAccount(t, db, "viewer", "pw")
	first := seedVideo(t, db, owner.ID, "first")
	second := seedVideo(t, db, owner.ID, "second")
	third := seedVideo(t, db, owner.ID, "third")

	// Watch out of creation order; the history must reflect viewing
	// order, not ID order.
	for _, id := range []uint{second.ID, third.ID, first.ID} {
		_, err := svc.Get(ctx, id, viewer.ID)
		require.NoError(t, err)
	}

	entries, err := svc.WatchHistory(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, third.ID, entries[1].ID)
	assert.Equal(t, first.ID, entries[2].ID)
	assert.Equal(t, "creator", entries[0].Owner.Username)
}

func TestVideoService_WatchHistory_SkipsDeletedVideos(t *testing.T) {
	svc, videos, db := newVideoServiceFixture(t)
	ctx := context.Background()

	owner := seedAccount(t, db, "creator", "pw")
	viewer := seedAccount(t, db, "viewer", "pw")
	kept := seedVideo(t, db, owner.ID, "kept")
	removed := seedVideo(t, db, owner.ID, "removed")

	for _, id := range []uint{removed.ID, kept.ID} {
		_, err := svc.Get(ctx, id, viewer.ID)
		require.NoError(t, err)
	}

	require.NoError(t, videos.Delete(ctx, removed.ID))

	entries, err := svc.WatchHistory(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, kept.ID, entries[0].ID)
}

func TestVideoService_WatchHistory_RequiresViewer(t *testing.T) {
	svc, _, _ := newVideoServiceFixture(t)

	_, err := svc.WatchHistory(context.Background(), 0)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestVideoService_Get_OwnerReadLeavesNoTrace(t *testing.T) {
	svc, videos, db := newVideoServiceFixture(t)
	ctx := context.Background()

	owner := seedAccount(t, db, "creator", "pw")
	video := seedVideo(t, db, owner.ID, "mine")

	_, err := svc.Get(ctx, video.ID, owner.ID)
	require.NoError(t, err)

	got, err := videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Views)

	entries, err := svc.WatchHistory(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestVideoService_Get_NonOwnerReadCountsOnce(t *testing.T) {
	svc, videos, db := newVideoServiceFixture(t)
	ctx := context.Background()

	owner := seedAccount(t, db, "creator", "pw")
	viewer := seedAccount(t, db, "viewer", "pw")
	video := seedVideo(t, db, owner.ID, "watched")

	_, err := svc.Get(ctx, video.ID, viewer.ID)
	require.NoError(t, err)

	got, err := videos.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)
}
