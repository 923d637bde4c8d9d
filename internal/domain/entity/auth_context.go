package entity

// FailureReason is the stable, internal reason code of an authentication failure.
// It is logged and counted but never returned to the client.
type FailureReason string

const (
	ReasonNone                       FailureReason = ""
	ReasonMissingAuthorizationHeader FailureReason = "missing_authorization_header"
	ReasonUnsupportedScheme          FailureReason = "unsupported_authorization_scheme"
	ReasonInvalidBearerToken         FailureReason = "invalid_bearer_token"
	ReasonOAuthAccessTokenNotFound   FailureReason = "oauth_access_token_not_found"
	ReasonBasicMalformedCredentials  FailureReason = "basic_malformed_credentials"
	ReasonBasicMissingEventID        FailureReason = "basic_missing_event_id"
	ReasonBasicMissingPassword       FailureReason = "basic_missing_password"
	ReasonBasicEventNotFound         FailureReason = "basic_event_not_found"
	ReasonBasicPasswordNotFound      FailureReason = "basic_password_not_found"
	ReasonBasicPasswordExpired       FailureReason = "basic_password_expired"
	ReasonBasicPasswordDecryptFailed FailureReason = "basic_password_decrypt_failed"
	ReasonBasicPasswordMismatch      FailureReason = "basic_password_mismatch"
	ReasonBasicUnexpectedError       FailureReason = "basic_unexpected_error"
)

// String returns the string representation of the FailureReason.
func (r FailureReason) String() string {
	return string(r)
}

// AuthContext is the request-scoped outcome of credential resolution.
// Exactly one of bearer, basic or unauthenticated holds. It is never persisted.
type AuthContext struct {
	IsAuthenticated bool
	Scheme          Scheme
	SubjectID       string        // Authenticated user. For basic credentials, the event owner.
	EventID         string        // Only set for basic credentials; the single event they are scoped to.
	ClientID        string        // Only set for OAuth-issued bearer tokens.
	Scopes          []string      // Scopes carried by an OAuth-issued bearer token.
	FailureReason   FailureReason // Only set when IsAuthenticated is false.
}

// Unauthenticated builds a failed AuthContext carrying the given reason.
func Unauthenticated(reason FailureReason) AuthContext {
	return AuthContext{
		Scheme:        SchemeNone,
		FailureReason: reason,
	}
}

// BearerAuthenticated builds a successful bearer AuthContext.
func BearerAuthenticated(subjectID, clientID string, scopes []string) AuthContext {
	return AuthContext{
		IsAuthenticated: true,
		Scheme:          SchemeBearer,
		SubjectID:       subjectID,
		ClientID:        clientID,
		Scopes:          scopes,
	}
}

// BasicAuthenticated builds a successful basic AuthContext bound to one event.
func BasicAuthenticated(ownerID, eventID string) AuthContext {
	return AuthContext{
		IsAuthenticated: true,
		Scheme:          SchemeBasic,
		SubjectID:       ownerID,
		EventID:         eventID,
	}
}
