package usecase

import (
	"context"

	"orienteer/internal/domain/entity"
)

// GrantRequest is the validated input of the token endpoint.
type GrantRequest struct {
	GrantType    entity.GrantType
	ClientID     string
	ClientSecret string
	RefreshToken string   // Required for the refresh_token grant.
	Scopes       []string // Requested scopes; empty means all granted scopes.
}

// RegisterClientInput defines the data required to register an OAuth client.
type RegisterClientInput struct {
	OwnerID      string
	Grants       []string
	RedirectURIs []string
	Scopes       []string
}

// OAuthModel is the storage contract of the client-credentials and refresh-token flows.
// Absence is reported as a nil result, never as an error, so callers cannot
// tell an unknown client from a wrong secret.
type OAuthModel interface {
	// GetClient loads a client. When clientSecret is non-empty it must match the stored hash.
	GetClient(ctx context.Context, clientID, clientSecret string) (*entity.OAuthClient, error)

	// SaveClient registers a client and returns its plaintext secret exactly once.
	SaveClient(ctx context.Context, input *RegisterClientInput) (*entity.RegisteredClient, error)

	// SaveToken persists an issued token pair. A nil user resolves to the client's owner.
	SaveToken(ctx context.Context, token *entity.Token, client *entity.OAuthClient, user *entity.User) (*entity.Token, error)

	// GetAccessToken returns nil for unknown or expired tokens.
	GetAccessToken(ctx context.Context, accessToken string) (*entity.OAuthAccessToken, error)

	// GetRefreshToken returns nil for unknown or expired tokens.
	GetRefreshToken(ctx context.Context, refreshToken string) (*entity.OAuthRefreshToken, error)

	// RevokeToken deletes a refresh token and reports whether one existed.
	RevokeToken(ctx context.Context, refreshToken string) (bool, error)

	// ValidateRequestedScopes reports whether requested is a subset of granted.
	ValidateRequestedScopes(requested, granted []string) bool

	// Grant runs a token-endpoint grant and returns the issued token pair.
	Grant(ctx context.Context, req *GrantRequest) (*entity.Token, error)
}
