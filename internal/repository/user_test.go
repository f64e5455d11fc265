package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/internal/model"
	"github.com/tubeworks/streamapi/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserRepository_TakenByOther(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	// A user's own identity must never count as taken.
	taken, err := repo.TakenByOther(ctx, alice.ID, "alice", "")
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.TakenByOther(ctx, alice.ID, "alice", "alice@example.com")
	require.NoError(t, err)
	assert.False(t, taken)

	// Another account's identity does.
	taken, err = repo.TakenByOther(ctx, alice.ID, "bob", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.TakenByOther(ctx, alice.ID, "", "bob@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	// Nothing to check means nothing is taken.
	taken, err = repo.TakenByOther(ctx, alice.ID, "", "")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepository_AppendWatchHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "viewer")

	require.NoError(t, repo.AppendWatchHistory(ctx, user.ID, 10))
	require.NoError(t, repo.AppendWatchHistory(ctx, user.ID, 30))
	require.NoError(t, repo.AppendWatchHistory(ctx, user.ID, 20))

	// Re-watching keeps the original position instead of duplicating.
	require.NoError(t, repo.AppendWatchHistory(ctx, user.ID, 30))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 30, 20}, []uint(got.WatchHistory))
}

func TestUserRepository_AppendWatchHistory_Concurrent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "binger")

	// Watch-history appends arrive from multiple queue workers at once;
	// none of them may be lost to an interleaved read-modify-write.
	const appends = 16
	var wg sync.WaitGroup
	for i := 1; i <= appends; i++ {
		wg.Add(1)
		go func(videoID uint) {
			defer wg.Done()
			assert.NoError(t, repo.AppendWatchHistory(ctx, user.ID, videoID))
		}(uint(i))
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, got.WatchHistory, appends)

	seen := make(map[uint]bool, appends)
	for _, id := range got.WatchHistory {
		seen[id] = true
	}
	for i := uint(1); i <= appends; i++ {
		assert.True(t, seen[i], "video %d missing from history", i)
	}
}
