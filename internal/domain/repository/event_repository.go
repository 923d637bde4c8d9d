package repository

import (
	"context"
	"errors"

	"orienteer/internal/domain/entity"
)

// Domain-specific errors for event persistence.
var (
	// ErrEventNotFound is returned when an event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventPasswordNotFound is returned when an event has no password record.
	ErrEventPasswordNotFound = errors.New("event password not found")
	// ErrResourceNotFound is returned by ownership lookups for an unknown resource id.
	ErrResourceNotFound = errors.New("resource not found")
)

// EventRepository fetches events and their event-scoped password records.
type EventRepository interface {
	// FindEventByID retrieves the ownership projection of an event.
	FindEventByID(ctx context.Context, id string) (*entity.Event, error)

	// FindEventPassword retrieves the live password record of an event.
	FindEventPassword(ctx context.Context, eventID string) (*entity.EventPassword, error)

	// SaveEventPassword inserts or wholly replaces the password record of an event.
	SaveEventPassword(ctx context.Context, password *entity.EventPassword) error

	// DeleteEventPassword removes the password record of an event.
	// It returns ErrEventPasswordNotFound when there was nothing to delete.
	DeleteEventPassword(ctx context.Context, eventID string) error
}

// OwnershipRepository resolves the author of any ownable resource by id.
// It backs the ownership guard's lookup option; results are never cached.
type OwnershipRepository interface {
	// FindOwnership returns ErrResourceNotFound for an unknown id.
	FindOwnership(ctx context.Context, resourceID string) (*entity.OwnershipRecord, error)
}
