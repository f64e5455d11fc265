package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tubeworks/streamapi/config"
	apperrors "github.com/tubeworks/streamapi/internal/errors"
)

func newTestTokenService(accessTTL, refreshTTL time.Duration) *TokenService {
	return NewTokenService(config.JWTConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	})
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)

	access, refresh, err := svc.IssuePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	userID, err := svc.Verify(access, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)

	userID, err = svc.Verify(refresh, TokenRefresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokenService_KindMismatch(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)

	access, refresh, err := svc.IssuePair(7)
	require.NoError(t, err)

	_, err = svc.Verify(access, TokenRefresh)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))

	_, err = svc.Verify(refresh, TokenAccess)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTestTokenService(-time.Minute, -time.Minute)

	access, err := svc.IssueAccessToken(7)
	require.NoError(t, err)

	_, err = svc.Verify(access, TokenAccess)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))
}

func TestTokenService_Garbage(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "definitely-not-a-token"},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VyX2lkIjo3fQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token, TokenAccess)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
		})
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	svc := newTestTokenService(15*time.Minute, 7*24*time.Hour)
	other := NewTokenService(config.JWTConfig{
		AccessSecret:  "a-completely-different-secret",
		RefreshSecret: "another-different-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})

	access, err := svc.IssueAccessToken(7)
	require.NoError(t, err)

	_, err = other.Verify(access, TokenAccess)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
}
