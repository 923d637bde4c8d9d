package model

import (
	"time"

	"github.com/google/uuid"
)

// OAuthClientModel mirrors the 'oauth_clients' table. Grants, redirect URIs
// and scopes live in child tables keyed by the client's row id.
type OAuthClientModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ClientID         string    `gorm:"type:varchar(64);unique;not null"`
	ClientSecretHash string    `gorm:"type:varchar(255);not null"`
	UserID           string    `gorm:"type:varchar(64);not null;index"`
	CreatedAt        time.Time

	Grants       []OAuthClientGrantModel       `gorm:"foreignKey:OAuthClientID"`
	RedirectURIs []OAuthClientRedirectURIModel `gorm:"foreignKey:OAuthClientID"`
	Scopes       []OAuthClientScopeModel       `gorm:"foreignKey:OAuthClientID"`
}

// TableName explicitly sets the table name for GORM.
func (OAuthClientModel) TableName() string {
	return "oauth_clients"
}

// OAuthClientGrantModel mirrors the 'oauth_client_grants' table.
type OAuthClientGrantModel struct {
	ID            uint      `gorm:"primaryKey"`
	OAuthClientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_oauth_client_grant"`
	GrantType     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_oauth_client_grant"`
}

// TableName explicitly sets the table name for GORM.
func (OAuthClientGrantModel) TableName() string {
	return "oauth_client_grants"
}

// OAuthClientRedirectURIModel mirrors the 'oauth_client_redirect_uris' table.
type OAuthClientRedirectURIModel struct {
	ID            uint      `gorm:"primaryKey"`
	OAuthClientID uuid.UUID `gorm:"type:uuid;not null;index"`
	RedirectURI   string    `gorm:"type:varchar(2048);not null"`
}

// TableName explicitly sets the table name for GORM.
func (OAuthClientRedirectURIModel) TableName() string {
	return "oauth_client_redirect_uris"
}

// OAuthClientScopeModel mirrors the 'oauth_client_scopes' table.
type OAuthClientScopeModel struct {
	ID            uint      `gorm:"primaryKey"`
	OAuthClientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_oauth_client_scope"`
	Scope         string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_oauth_client_scope"`
}

// TableName explicitly sets the table name for GORM.
func (OAuthClientScopeModel) TableName() string {
	return "oauth_client_scopes"
}

// OAuthAccessTokenModel mirrors the 'oauth_access_tokens' table.
// Only the SHA-256 hash of the token is stored. Scope is space separated.
type OAuthAccessTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	TokenHash string    `gorm:"type:varchar(64);unique;not null"`
	ClientID  string    `gorm:"type:varchar(64);not null;index"`
	UserID    string    `gorm:"type:varchar(64);not null"`
	Scope     string    `gorm:"type:text"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (OAuthAccessTokenModel) TableName() string {
	return "oauth_access_tokens"
}

// OAuthRefreshTokenModel mirrors the 'oauth_refresh_tokens' table.
type OAuthRefreshTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	TokenHash string    `gorm:"type:varchar(64);unique;not null"`
	ClientID  string    `gorm:"type:varchar(64);not null;index"`
	UserID    string    `gorm:"type:varchar(64);not null"`
	Scope     string    `gorm:"type:text"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (OAuthRefreshTokenModel) TableName() string {
	return "oauth_refresh_tokens"
}
