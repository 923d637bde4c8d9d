package redis

import (
	"context"
	"testing"
	"time"

	"orienteer/config"
	"orienteer/internal/domain/entity"
	"orienteer/internal/domain/repository"
	"orienteer/internal/infra/crypto"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenRepository(t *testing.T) (*oauthTokenRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := &config.Config{Redis: &config.RedisConfig{URL: "redis://" + mr.Addr(), KeyPrefix: "orienteer:", PoolSize: 4}}

	client, err := NewClient(cfg.Redis)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	repo, ok := NewOAuthTokenRepository(client, cfg).(*oauthTokenRepository)
	require.True(t, ok)

	return repo, mr
}

func tokenPair(expiresIn time.Duration) (*entity.OAuthAccessToken, *entity.OAuthRefreshToken) {
	now := time.Now()
	access := &entity.OAuthAccessToken{
		Token:     "access-raw",
		ExpiresAt: now.Add(expiresIn),
		ClientID:  "client-1",
		UserID:    "42",
		Scopes:    []string{"events:read"},
	}
	refresh := &entity.OAuthRefreshToken{
		Token:     "refresh-raw",
		ExpiresAt: now.Add(24 * time.Hour),
		ClientID:  "client-1",
		UserID:    "42",
		Scopes:    []string{"events:read"},
	}

	return access, refresh
}

func TestOAuthTokenRepository_SaveAndFind(t *testing.T) {
	repo, mr := setupTokenRepository(t)
	ctx := context.Background()
	access, refresh := tokenPair(time.Hour)

	require.NoError(t, repo.SaveTokenPair(ctx, access, refresh))

	// Only the hash is used as the key.
	assert.True(t, mr.Exists("orienteer:oauth:access:"+crypto.HashToken("access-raw")))
	assert.True(t, mr.Exists("orienteer:oauth:refresh:"+crypto.HashToken("refresh-raw")))
	assert.False(t, mr.Exists("orienteer:oauth:access:access-raw"))

	gotAccess, err := repo.FindAccessToken(ctx, "access-raw")
	require.NoError(t, err)
	assert.Equal(t, "client-1", gotAccess.ClientID)
	assert.Equal(t, "42", gotAccess.UserID)
	assert.Equal(t, []string{"events:read"}, gotAccess.Scopes)
	assert.WithinDuration(t, access.ExpiresAt, gotAccess.ExpiresAt, time.Millisecond)

	gotRefresh, err := repo.FindRefreshToken(ctx, "refresh-raw")
	require.NoError(t, err)
	assert.Equal(t, "refresh-raw", gotRefresh.Token)
}

func TestOAuthTokenRepository_AccessOnly(t *testing.T) {
	repo, mr := setupTokenRepository(t)
	access, _ := tokenPair(time.Hour)

	require.NoError(t, repo.SaveTokenPair(context.Background(), access, nil))
	assert.Len(t, mr.Keys(), 1)

	_, err := repo.FindRefreshToken(context.Background(), "refresh-raw")
	assert.ErrorIs(t, err, repository.ErrOAuthTokenNotFound)
}

func TestOAuthTokenRepository_KeyExpiry(t *testing.T) {
	repo, mr := setupTokenRepository(t)
	access, refresh := tokenPair(time.Minute)

	require.NoError(t, repo.SaveTokenPair(context.Background(), access, refresh))
	assert.Positive(t, mr.TTL("orienteer:oauth:access:"+crypto.HashToken("access-raw")))

	mr.FastForward(2 * time.Minute)

	_, err := repo.FindAccessToken(context.Background(), "access-raw")
	assert.ErrorIs(t, err, repository.ErrOAuthTokenNotFound)

	// The refresh token lives on independently.
	_, err = repo.FindRefreshToken(context.Background(), "refresh-raw")
	assert.NoError(t, err)
}

func TestOAuthTokenRepository_ExpiredRecordIsAbsent(t *testing.T) {
	repo, _ := setupTokenRepository(t)
	access, refresh := tokenPair(time.Hour)
	require.NoError(t, repo.SaveTokenPair(context.Background(), access, refresh))

	repo.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := repo.FindAccessToken(context.Background(), "access-raw")
	assert.ErrorIs(t, err, repository.ErrOAuthTokenNotFound)
}

func TestOAuthTokenRepository_DeleteRefreshToken(t *testing.T) {
	repo, _ := setupTokenRepository(t)
	ctx := context.Background()
	access, refresh := tokenPair(time.Hour)
	require.NoError(t, repo.SaveTokenPair(ctx, access, refresh))

	deleted, err := repo.DeleteRefreshToken(ctx, "refresh-raw")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteRefreshToken(ctx, "refresh-raw")
	require.NoError(t, err)
	assert.False(t, deleted)

	// Revoking the refresh token leaves the access token usable.
	_, err = repo.FindAccessToken(ctx, "access-raw")
	assert.NoError(t, err)
}

func TestOAuthTokenRepository_UnknownToken(t *testing.T) {
	repo, _ := setupTokenRepository(t)

	_, err := repo.FindAccessToken(context.Background(), "never-issued")
	assert.ErrorIs(t, err, repository.ErrOAuthTokenNotFound)
}

func TestOAuthTokenRepository_NilAccess(t *testing.T) {
	repo, _ := setupTokenRepository(t)

	assert.Error(t, repo.SaveTokenPair(context.Background(), nil, nil))
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(&config.RedisConfig{URL: "://bad"})
	assert.Error(t, err)
}
