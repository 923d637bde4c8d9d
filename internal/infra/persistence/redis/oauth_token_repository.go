package redis

import (
	"context"
	"encoding/json"
	"time"

	"orienteer/config"
	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
	"orienteer/internal/errors"
	"orienteer/internal/infra/crypto"

	goredis "github.com/go-redis/redis/v8"
)

const (
	accessKeySpace  = "oauth:access:"
	refreshKeySpace = "oauth:refresh:"
)

// tokenRecord is the JSON value stored under a token key.
type tokenRecord struct {
	ClientID  string    `json:"client_id"`
	UserID    string    `json:"user_id"`
	Scopes    []string  `json:"scopes,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// oauthTokenRepository implements repository.OAuthTokenRepository on Redis.
// Keys expire at the token's own expiry, so stale tokens vanish without a sweeper.
type oauthTokenRepository struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
}

// NewOAuthTokenRepository is the constructor for oauthTokenRepository.
func NewOAuthTokenRepository(client *goredis.Client, cfg *config.Config) repository.OAuthTokenRepository {
	prefix := ""
	if cfg != nil && cfg.Redis != nil {
		prefix = cfg.Redis.KeyPrefix
	}

	return &oauthTokenRepository{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// SaveTokenPair writes both keys inside one MULTI/EXEC block.
func (repo *oauthTokenRepository) SaveTokenPair(ctx context.Context, access *entity.OAuthAccessToken, refresh *entity.OAuthRefreshToken) error {
	if access == nil {
		return errors.New("access token is required")
	}

	accessData, err := json.Marshal(tokenRecord{
		ClientID:  access.ClientID,
		UserID:    access.UserID,
		Scopes:    access.Scopes,
		ExpiresAt: access.ExpiresAt,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode access token")
	}

	var refreshData []byte
	if refresh != nil {
		refreshData, err = json.Marshal(tokenRecord{
			ClientID:  refresh.ClientID,
			UserID:    refresh.UserID,
			Scopes:    refresh.Scopes,
			ExpiresAt: refresh.ExpiresAt,
		})
		if err != nil {
			return errors.Wrap(err, "failed to encode refresh token")
		}
	}

	_, err = repo.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		accessKey := repo.key(accessKeySpace, access.Token)
		pipe.Set(ctx, accessKey, accessData, 0)
		pipe.PExpireAt(ctx, accessKey, access.ExpiresAt)

		if refresh != nil {
			refreshKey := repo.key(refreshKeySpace, refresh.Token)
			pipe.Set(ctx, refreshKey, refreshData, 0)
			pipe.PExpireAt(ctx, refreshKey, refresh.ExpiresAt)
		}

		return nil
	})
	if err != nil {
		return domainerrors.ErrTokenIssueFailed.WrapMessage("failed to store token pair: " + err.Error())
	}

	return nil
}

// FindAccessToken returns repository.ErrOAuthTokenNotFound for unknown or expired tokens.
func (repo *oauthTokenRepository) FindAccessToken(ctx context.Context, token string) (*entity.OAuthAccessToken, error) {
	record, err := repo.load(ctx, repo.key(accessKeySpace, token))
	if err != nil {
		return nil, err
	}

	return &entity.OAuthAccessToken{
		Token:     token,
		ExpiresAt: record.ExpiresAt,
		ClientID:  record.ClientID,
		UserID:    record.UserID,
		Scopes:    record.Scopes,
	}, nil
}

// FindRefreshToken returns repository.ErrOAuthTokenNotFound for unknown or expired tokens.
func (repo *oauthTokenRepository) FindRefreshToken(ctx context.Context, token string) (*entity.OAuthRefreshToken, error) {
	record, err := repo.load(ctx, repo.key(refreshKeySpace, token))
	if err != nil {
		return nil, err
	}

	return &entity.OAuthRefreshToken{
		Token:     token,
		ExpiresAt: record.ExpiresAt,
		ClientID:  record.ClientID,
		UserID:    record.UserID,
		Scopes:    record.Scopes,
	}, nil
}

// DeleteRefreshToken reports whether a key was removed.
func (repo *oauthTokenRepository) DeleteRefreshToken(ctx context.Context, token string) (bool, error) {
	n, err := repo.client.Del(ctx, repo.key(refreshKeySpace, token)).Result()
	if err != nil {
		return false, errors.Wrap(err, "redis del failed")
	}

	return n > 0, nil
}

func (repo *oauthTokenRepository) load(ctx context.Context, key string) (*tokenRecord, error) {
	data, err := repo.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repository.ErrOAuthTokenNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get failed")
	}

	var record tokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "failed to decode token record")
	}

	// Key expiry has millisecond granularity; the record is authoritative.
	if !record.ExpiresAt.After(repo.now()) {
		return nil, repository.ErrOAuthTokenNotFound
	}

	return &record, nil
}

func (repo *oauthTokenRepository) key(space, token string) string {
	return repo.prefix + space + crypto.HashToken(token)
}
