package usecase

import (
	"context"

	"orienteer/internal/domain/entity"
)

// EventPasswordUsecase manages the event-scoped passwords used for basic credentials.
type EventPasswordUsecase interface {
	// Rotate replaces the event's password and returns the new plaintext once.
	Rotate(ctx context.Context, authCtx entity.AuthContext, eventID string) (*entity.IssuedEventPassword, error)

	// Revoke deletes the event's password so basic credentials stop working.
	Revoke(ctx context.Context, authCtx entity.AuthContext, eventID string) error
}
