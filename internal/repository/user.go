package repository

import (
	"context"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/internal/model"
	ctxutil "github.com/tubeworks/streamapi/pkg/context"
	"github.com/tubeworks/streamapi/pkg/logger"
)

const historyLockStripes = 64

type UserRepository struct {
	db *gorm.DB
	// historyLocks serializes watch-history appends per user. The append
	// is a read-modify-write of the whole list, and the task queue runs
	// multiple workers; without serialization two concurrent appends for
	// the same user would both read the old list and one write would be
	// lost.
	historyLocks [historyLockStripes]sync.Mutex
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("username", user.Username).
			Err(err).
			Log()
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername matches case-normalized usernames.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByUsername")

	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", strings.ToLower(username)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsernameOrEmail resolves the login identity; either argument may be
// empty.
func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByUsernameOrEmail")

	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", strings.ToLower(username), strings.ToLower(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether either identity is already taken.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ExistsByUsernameOrEmail")

	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", strings.ToLower(username), strings.ToLower(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// TakenByOther reports whether a different account already holds the given
// username or email. Blank values are not checked, so callers pass only the
// fields that actually changed.
func (r *UserRepository) TakenByOther(ctx context.Context, exceptID uint, username, email string) (bool, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "TakenByOther")

	query := r.db.WithContext(ctx).Model(&model.User{}).Where("id <> ?", exceptID)
	switch {
	case username != "" && email != "":
		query = query.Where("username = ? OR email = ?", strings.ToLower(username), strings.ToLower(email))
	case username != "":
		query = query.Where("username = ?", strings.ToLower(username))
	case email != "":
		query = query.Where("email = ?", strings.ToLower(email))
	default:
		return false, nil
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateRefreshToken overwrites the persisted refresh token, implicitly
// revoking the previous one. An empty token clears the session. The raw
// column update deliberately bypasses password hashing and model hooks; a
// token rotation is not a credential change.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID uint, token string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateRefreshToken")

	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("refresh_token", token).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to update refresh token").
			Uint("user_id", userID).
			Err(err).
			Log()
	}
	return err
}

// UpdatePassword stores a new password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdatePassword")

	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("password", passwordHash).Error
}

// UpdateFields applies a partial update of public profile columns.
func (r *UserRepository) UpdateFields(ctx context.Context, userID uint, fields map[string]any) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "UpdateFields")

	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(fields).Error
}

// AppendWatchHistory adds videoID to the end of the user's watch history
// unless it is already present; the stored list never holds duplicates.
// Appends for the same user are serialized through a lock stripe.
func (r *UserRepository) AppendWatchHistory(ctx context.Context, userID, videoID uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "AppendWatchHistory")

	mu := &r.historyLocks[userID%historyLockStripes]
	mu.Lock()
	defer mu.Unlock()

	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	for _, id := range user.WatchHistory {
		if id == videoID {
			return nil
		}
	}

	history := append(user.WatchHistory, videoID)
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("watch_history", history).Error
}
