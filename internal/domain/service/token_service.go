package service

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoToken is returned when an empty token is presented for verification.
	ErrNoToken = errors.New("No token provided") //nolint:staticcheck
	// ErrInvalidToken is returned for malformed, tampered, expired or mistyped tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenPayload is the stateless claim set carried by a bearer token.
type TokenPayload struct {
	SubjectID string   // The user the token was issued for.
	ClientID  string   // Set only for tokens issued through the OAuth2 token endpoint.
	Scopes    []string // Scopes granted to an OAuth-issued token.
}

// IsOAuthIssued reports whether the token was issued to an OAuth client and
// must therefore also be present in the access-token store.
func (p *TokenPayload) IsOAuthIssued() bool {
	return p.ClientID != ""
}

// TokenService signs and verifies bearer tokens. Signing is stateless;
// verification is purely cryptographic plus an expiry check.
type TokenService interface {
	// Sign issues a bearer token. A zero ttl uses the configured access-token lifetime.
	Sign(payload TokenPayload, ttl time.Duration) (string, error)

	// Verify returns the payload of a valid token, ErrNoToken for "" and ErrInvalidToken otherwise.
	Verify(token string) (*TokenPayload, error)

	// SignActivation issues a long-lived activation/reset token carrying only a subject id.
	SignActivation(subjectID string) (string, error)

	// VerifyActivation returns the subject id carried by an activation/reset token.
	VerifyActivation(token string) (string, error)

	// AccessTokenDuration returns the configured lifetime of access tokens.
	AccessTokenDuration() time.Duration
}
