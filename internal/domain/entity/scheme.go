// Package entity contains the core business objects of the project.
package entity

import "strings"

// Scheme identifies which credential scheme authenticated a request.
type Scheme string

const (
	// SchemeNone marks an unauthenticated request.
	SchemeNone Scheme = "none"
	// SchemeBearer marks a request authenticated by a signed bearer token.
	SchemeBearer Scheme = "bearer"
	// SchemeBasic marks a request authenticated by an event-scoped password.
	SchemeBasic Scheme = "basic"
)

// String returns the string representation of the Scheme.
func (s Scheme) String() string {
	return string(s)
}

// IsValid checks if the Scheme is a valid value.
func (s Scheme) IsValid() bool {
	switch s {
	case SchemeNone, SchemeBearer, SchemeBasic:
		return true
	default:
		return false
	}
}

// ParseScheme maps the scheme token of an Authorization header to a Scheme.
// Matching is case-insensitive. The second result is false for unknown schemes.
func ParseScheme(token string) (Scheme, bool) {
	switch strings.ToLower(token) {
	case "bearer":
		return SchemeBearer, true
	case "basic":
		return SchemeBasic, true
	default:
		return SchemeNone, false
	}
}

// GrantType is an OAuth2 grant a client may be allowed to use.
type GrantType string

const (
	// GrantClientCredentials issues tokens to a client acting on behalf of its owner.
	GrantClientCredentials GrantType = "client_credentials"
	// GrantRefreshToken exchanges a refresh token for a new token pair.
	GrantRefreshToken GrantType = "refresh_token"
)

// String returns the string representation of the GrantType.
func (g GrantType) String() string {
	return string(g)
}

// IsValid checks if the GrantType is supported.
func (g GrantType) IsValid() bool {
	switch g {
	case GrantClientCredentials, GrantRefreshToken:
		return true
	default:
		return false
	}
}
