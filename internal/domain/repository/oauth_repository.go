package repository

import (
	"context"
	"errors"

	"orienteer/internal/domain/entity"
)

// Domain-specific errors for OAuth persistence.
var (
	// ErrOAuthClientNotFound is returned when a client id is unknown.
	ErrOAuthClientNotFound = errors.New("oauth client not found")
	// ErrOAuthTokenNotFound is returned when a token is unknown or has expired.
	ErrOAuthTokenNotFound = errors.New("oauth token not found")
)

// OAuthClientRepository persists OAuth clients together with their grants,
// redirect URIs and scopes.
type OAuthClientRepository interface {
	// FindClientByClientID loads a client and its child collections.
	FindClientByClientID(ctx context.Context, clientID string) (*entity.OAuthClient, error)

	// CreateClient persists a client and its child collections.
	// Callers that need atomicity run it inside TransactionManager.Execute.
	CreateClient(ctx context.Context, client *entity.OAuthClient) error
}

// OAuthTokenRepository is the key-value persistence of issued tokens.
// Tokens are addressed by their raw string; implementations store only a hash.
type OAuthTokenRepository interface {
	// SaveTokenPair persists an access token and, when non-nil, its refresh token
	// as one atomic unit: either both are stored or neither is.
	SaveTokenPair(ctx context.Context, access *entity.OAuthAccessToken, refresh *entity.OAuthRefreshToken) error

	// FindAccessToken returns ErrOAuthTokenNotFound for unknown or expired tokens.
	FindAccessToken(ctx context.Context, token string) (*entity.OAuthAccessToken, error)

	// FindRefreshToken returns ErrOAuthTokenNotFound for unknown or expired tokens.
	FindRefreshToken(ctx context.Context, token string) (*entity.OAuthRefreshToken, error)

	// DeleteRefreshToken removes a refresh token and reports whether anything was deleted.
	DeleteRefreshToken(ctx context.Context, token string) (bool, error)
}
