package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tubeworks/streamapi/internal/dto"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
	"github.com/tubeworks/streamapi/internal/model"
	"github.com/tubeworks/streamapi/internal/repository"
	ctxutil "github.com/tubeworks/streamapi/pkg/context"
	"github.com/tubeworks/streamapi/pkg/logger"
	"github.com/tubeworks/streamapi/pkg/storage"
)

// UserService owns account lifecycle and the session token pair. The
// refresh token persisted on the user row is the single source of truth
// for which refresh token is currently valid.
type UserService struct {
	users  *repository.UserRepository
	tokens *TokenService
	media  MediaStore
	queue  TaskSubmitter
}

func NewUserService(users *repository.UserRepository, tokens *TokenService, media MediaStore, queue TaskSubmitter) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		media:  media,
		queue:  queue,
	}
}

// Register creates an account. Avatar and cover image paths point at staged
// local files and may be empty; the avatar is required by the handler.
func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest, avatarPath, coverPath string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "user", "Register")

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if exists {
		return nil, apperrors.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	avatarURL, err := s.uploadIfPresent(ctx, avatarPath)
	if err != nil {
		return nil, err
	}
	coverURL, err := s.uploadIfPresent(ctx, coverPath)
	if err != nil {
		// The avatar already landed in the store; reclaim it in the
		// background so registration failures leave no orphans.
		s.deleteMediaLater("register.rollback_avatar", avatarURL)
		return nil, err
	}

	user := &model.User{
		Username:   username,
		Email:      email,
		FullName:   strings.TrimSpace(req.FullName),
		Password:   string(hash),
		Avatar:     avatarURL,
		CoverImage: coverURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.deleteMediaLater("register.rollback_avatar", avatarURL)
		s.deleteMediaLater("register.rollback_cover", coverURL)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		Uint("user_id", user.ID).
		String("username", user.Username).
		Log()

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Login authenticates by username or email and mints a fresh token pair.
// The new refresh token replaces whatever was stored, ending any previous
// session.
func (s *UserService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "user", "Login")

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, apperrors.NewDomainError("VALIDATION_ERROR", "username or email is required")
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Indistinguishable from a wrong password on purpose.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		Log()

	return &dto.LoginResponse{
		User:         dto.NewUserResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// RefreshSession rotates the token pair. The presented refresh token must
// verify and must be byte-identical to the one stored for the user; an
// older, superseded token is rejected as stale.
func (s *UserService) RefreshSession(ctx context.Context, rawToken string) (*dto.TokenPairResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "user", "RefreshSession")

	if rawToken == "" {
		return nil, apperrors.ErrMissingToken
	}

	userID, err := s.tokens.Verify(rawToken, TokenRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if user.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(rawToken)) != 1 {
		return nil, apperrors.ErrStaleRefreshToken
	}

	access, refresh, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout clears the stored refresh token. Calling it for a session that is
// already logged out is a no-op.
func (s *UserService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.WithOperation(ctx, "user", "Logout")

	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	logger.InfoWithContext(ctx, "User logged out").
		Uint("user_id", userID).
		Log()
	return nil
}

// ChangePassword verifies the current password before accepting the new
// one. A wrong current password fails authentication, not validation.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, req dto.ChangePasswordRequest) error {
	ctx = ctxutil.WithOperation(ctx, "user", "ChangePassword")

	if req.NewPassword != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password changed").
		Uint("user_id", userID).
		Log()
	return nil
}

// CurrentUser returns the authenticated user's own profile.
func (s *UserService) CurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "user", "CurrentUser")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateDetails changes username and/or email. At least one field must be
// present, and the new values must not collide with another account.
func (s *UserService) UpdateDetails(ctx context.Context, userID uint, req dto.UpdateDetailsRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "user", "UpdateDetails")

	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" && email == "" {
		return nil, apperrors.NewDomainError("VALIDATION_ERROR", "nothing to update")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Resubmitting the current value is a no-op, not a conflict; only
	// values that actually change are checked against other accounts.
	fields := map[string]any{}
	changedUsername, changedEmail := "", ""
	if username != "" && username != user.Username {
		fields["username"] = username
		changedUsername = username
		user.Username = username
	}
	if email != "" && email != user.Email {
		fields["email"] = email
		changedEmail = email
		user.Email = email
	}
	if len(fields) > 0 {
		taken, err := s.users.TakenByOther(ctx, userID, changedUsername, changedEmail)
		if err != nil {
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
		if taken {
			return nil, apperrors.ErrUserExists
		}
		if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ErrUserExists
			}
			return nil, apperrors.WrapError(apperrors.ErrInternal, err)
		}
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// UpdateAvatar replaces the avatar with a freshly uploaded image. The old
// object is reclaimed in the background; its deletion is best effort.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error) {
	return s.replaceImage(ctx, userID, localPath, "avatar")
}

// UpdateCoverImage replaces the cover image, same contract as UpdateAvatar.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID uint, localPath string) (*dto.UserResponse, error) {
	return s.replaceImage(ctx, userID, localPath, "cover_image")
}

func (s *UserService) replaceImage(ctx context.Context, userID uint, localPath, column string) (*dto.UserResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "user", "UpdateImage")

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	url, err := s.media.Upload(ctx, localPath, storage.AssetImage)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrUpstream, err)
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{column: url}); err != nil {
		s.deleteMediaLater("user.rollback_image", url)
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	old := user.Avatar
	if column == "cover_image" {
		old = user.CoverImage
	}
	s.deleteMediaLater("user.reclaim_image", old)

	if column == "cover_image" {
		user.CoverImage = url
	} else {
		user.Avatar = url
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *UserService) uploadIfPresent(ctx context.Context, localPath string) (string, error) {
	if localPath == "" {
		return "", nil
	}
	url, err := s.media.Upload(ctx, localPath, storage.AssetImage)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrUpstream, err)
	}
	return url, nil
}

func (s *UserService) deleteMediaLater(name, publicURL string) {
	if publicURL == "" || s.queue == nil {
		return
	}
	s.queue.Submit(name, func(ctx context.Context) error {
		return s.media.Delete(ctx, publicURL)
	})
}
