// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"slices"
	"time"
)

// OAuthClient is a registered machine client. It is owned by exactly one user;
// grants, redirect URIs and scopes carry no ordering significance.
type OAuthClient struct {
	ID           string    // Storage identifier of the client record.
	ClientID     string    // Public identifier presented at the token endpoint.
	HashedSecret string    // bcrypt hash of the client secret. The plaintext is never stored.
	OwnerUserID  string    // The user on whose behalf client-credentials tokens are issued.
	Grants       []string  // Allowed grant types, e.g. "client_credentials".
	RedirectURIs []string  // Registered redirect URIs.
	Scopes       []string  // Scopes the client may request.
	CreatedAt    time.Time // Timestamp of when the client was registered.
}

// AllowsGrant reports whether the client is registered for the given grant.
func (c *OAuthClient) AllowsGrant(grant GrantType) bool {
	return slices.Contains(c.Grants, grant.String())
}

// RegisteredClient is returned exactly once, when a client is created.
// ClientSecret is the plaintext secret and cannot be retrieved again.
type RegisteredClient struct {
	ID           string   `json:"id"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Grants       []string `json:"grants"`
	RedirectURIs []string `json:"redirect_uris"`
	Scopes       []string `json:"scopes"`
}

// OAuthAccessToken is an issued access token. Access and refresh tokens are
// independent: revoking a refresh token leaves its sibling access token valid until expiry.
type OAuthAccessToken struct {
	Token     string    // Raw token. Storage only ever sees its SHA-256 hash.
	ExpiresAt time.Time // The token is treated as absent once expired.
	ClientID  string    // Public client identifier the token was issued to.
	UserID    string    // User on whose behalf the token was issued.
	Scopes    []string
}

// OAuthRefreshToken is an issued refresh token.
type OAuthRefreshToken struct {
	Token     string
	ExpiresAt time.Time
	ClientID  string
	UserID    string
	Scopes    []string
}

// Token is the composed result of an issuance: the pair plus the client and user it belongs to.
type Token struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string // Empty when no refresh token was issued.
	RefreshTokenExpiresAt time.Time
	Scopes                []string
	Client                *OAuthClient
	User                  *User
}
