// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"orienteer/internal/domain/entity"
)

// AuthResolver turns the raw Authorization header of a request into an AuthContext.
// It never fails: every problem is reported as an unauthenticated context
// carrying a FailureReason.
type AuthResolver interface {
	Resolve(ctx context.Context, authorizationHeader string) entity.AuthContext
}

// BasicVerifier checks an event-scoped password.
type BasicVerifier interface {
	// Verify returns the id of the event's owner on success. Failures are
	// *domainerrors.AuthError values carrying a basic_* reason.
	Verify(ctx context.Context, eventID, password string) (string, error)
}
