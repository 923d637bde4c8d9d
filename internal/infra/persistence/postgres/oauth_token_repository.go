package postgres

import (
	"context"
	"strings"
	"time"

	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
	"orienteer/internal/infra/crypto"
	"orienteer/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// oauthTokenRepository implements repository.OAuthTokenRepository on PostgreSQL.
// Rows are keyed by the SHA-256 hash of the token.
type oauthTokenRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOAuthTokenRepository is the constructor for oauthTokenRepository.
func NewOAuthTokenRepository(db *gorm.DB) repository.OAuthTokenRepository {
	return &oauthTokenRepository{db: db, now: time.Now}
}

// SaveTokenPair writes the access token and optional refresh token in one transaction.
func (repo *oauthTokenRepository) SaveTokenPair(ctx context.Context, access *entity.OAuthAccessToken, refresh *entity.OAuthRefreshToken) error {
	if access == nil {
		return errors.New("access token is required")
	}

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accessM := &model.OAuthAccessTokenModel{
			ID:        uuid.New(),
			TokenHash: crypto.HashToken(access.Token),
			ClientID:  access.ClientID,
			UserID:    access.UserID,
			Scope:     joinScopes(access.Scopes),
			ExpiresAt: access.ExpiresAt,
		}
		if err := tx.Create(accessM).Error; err != nil {
			return errors.Wrap(err, "failed to save access token")
		}

		if refresh == nil {
			return nil
		}

		refreshM := &model.OAuthRefreshTokenModel{
			ID:        uuid.New(),
			TokenHash: crypto.HashToken(refresh.Token),
			ClientID:  refresh.ClientID,
			UserID:    refresh.UserID,
			Scope:     joinScopes(refresh.Scopes),
			ExpiresAt: refresh.ExpiresAt,
		}
		if err := tx.Create(refreshM).Error; err != nil {
			return errors.Wrap(err, "failed to save refresh token")
		}

		return nil
	})
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrTokenIssueFailed.WrapMessage("token already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to save token pair")
	}

	return nil
}

// FindAccessToken returns repository.ErrOAuthTokenNotFound for unknown or expired tokens.
func (repo *oauthTokenRepository) FindAccessToken(ctx context.Context, token string) (*entity.OAuthAccessToken, error) {
	var tokenM model.OAuthAccessTokenModel
	err := repo.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", crypto.HashToken(token), repo.now()).
		First(&tokenM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOAuthTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find access token")
	}

	return &entity.OAuthAccessToken{
		Token:     token,
		ExpiresAt: tokenM.ExpiresAt,
		ClientID:  tokenM.ClientID,
		UserID:    tokenM.UserID,
		Scopes:    splitScopes(tokenM.Scope),
	}, nil
}

// FindRefreshToken returns repository.ErrOAuthTokenNotFound for unknown or expired tokens.
func (repo *oauthTokenRepository) FindRefreshToken(ctx context.Context, token string) (*entity.OAuthRefreshToken, error) {
	var tokenM model.OAuthRefreshTokenModel
	err := repo.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", crypto.HashToken(token), repo.now()).
		First(&tokenM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOAuthTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find refresh token")
	}

	return &entity.OAuthRefreshToken{
		Token:     token,
		ExpiresAt: tokenM.ExpiresAt,
		ClientID:  tokenM.ClientID,
		UserID:    tokenM.UserID,
		Scopes:    splitScopes(tokenM.Scope),
	}, nil
}

// DeleteRefreshToken reports whether a row was removed.
func (repo *oauthTokenRepository) DeleteRefreshToken(ctx context.Context, token string) (bool, error) {
	result := repo.db.WithContext(ctx).
		Where("token_hash = ?", crypto.HashToken(token)).
		Delete(&model.OAuthRefreshTokenModel{})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete refresh token")
	}

	return result.RowsAffected > 0, nil
}

func joinScopes(scopes []string) string {
	return strings.Join(scopes, " ")
}

func splitScopes(scope string) []string {
	return strings.Fields(scope)
}
