package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tubeworks/streamapi/config"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
	"github.com/tubeworks/streamapi/pkg/logger"
)

// TokenKind selects which signing secret and lifetime a token uses.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// TokenService mints and verifies the HS256 token pair used for sessions.
// Access and refresh tokens are signed with independent secrets, so a token
// of one kind never verifies as the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}
}

// IssueAccessToken mints a short-lived token carrying the user identity.
func (s *TokenService) IssueAccessToken(userID uint) (string, error) {
	return s.issue(userID, TokenAccess, s.accessSecret, s.accessTTL)
}

// IssueRefreshToken mints the long-lived token used to rotate a session.
func (s *TokenService) IssueRefreshToken(userID uint) (string, error) {
	return s.issue(userID, TokenRefresh, s.refreshSecret, s.refreshTTL)
}

// IssuePair mints both tokens for the user in one call.
func (s *TokenService) IssuePair(userID uint) (access string, refresh string, err error) {
	if access, err = s.IssueAccessToken(userID); err != nil {
		return "", "", err
	}
	if refresh, err = s.IssueRefreshToken(userID); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *TokenService) issue(userID uint, kind TokenKind, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    userID,
		"token_type": string(kind),
		// With second-resolution timestamps alone, two tokens minted in
		// the same second would be byte-identical and a rotation would
		// not actually rotate. The jti makes every mint unique.
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		logger.ErrorWithContext(context.Background(), "Failed to sign session token").
			String("token_type", string(kind)).
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and kind of a token and returns the
// identity it carries. Expired tokens map to ErrTokenExpired, every other
// failure to ErrInvalidToken.
func (s *TokenService) Verify(tokenString string, kind TokenKind) (uint, error) {
	secret := s.accessSecret
	if kind == TokenRefresh {
		secret = s.refreshSecret
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperrors.ErrTokenExpired
		}
		return 0, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, apperrors.ErrInvalidToken
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != string(kind) {
		return 0, apperrors.ErrInvalidToken
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, apperrors.ErrInvalidToken
	}
	return uint(rawID), nil
}
