package usecase

import (
	"context"

	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
)

// OwnershipResult is returned when the guard lets a request through.
type OwnershipResult struct {
	Resource *entity.OwnershipRecord
	OwnerID  string // The authenticated subject, resolved once for downstream handlers.
}

// GuardOptions holds the per-call configuration of the ownership guard.
type GuardOptions struct {
	Lookup        repository.OwnershipRepository
	NoCredentials *domainerrors.BaseError
	ScopeMismatch *domainerrors.BaseError
	NotFound      *domainerrors.BaseError
	Forbidden     *domainerrors.BaseError
}

// GuardOption customizes one EnsureOwner call.
type GuardOption func(*GuardOptions)

// DefaultGuardOptions returns the default lookup-less options with the default failures.
func DefaultGuardOptions() GuardOptions {
	return GuardOptions{
		NoCredentials: domainerrors.ErrNoCredentials,
		ScopeMismatch: domainerrors.ErrCredentialsMismatch,
		NotFound:      domainerrors.ErrResourceNotFound,
		Forbidden:     domainerrors.ErrNotResourceOwner,
	}
}

// WithLookup selects the resource table the guard reads the author from.
func WithLookup(lookup repository.OwnershipRepository) GuardOption {
	return func(o *GuardOptions) {
		o.Lookup = lookup
	}
}

// WithNoCredentials overrides the failure for unauthenticated requests.
func WithNoCredentials(status int, message string) GuardOption {
	return func(o *GuardOptions) {
		o.NoCredentials = o.NoCredentials.WithStatus(status).WithMessage(message)
	}
}

// WithScopeMismatch overrides the failure for basic credentials bound to another event.
func WithScopeMismatch(status int, message string) GuardOption {
	return func(o *GuardOptions) {
		o.ScopeMismatch = o.ScopeMismatch.WithStatus(status).WithMessage(message)
	}
}

// WithNotFound overrides the failure for unknown resources.
func WithNotFound(status int, message string) GuardOption {
	return func(o *GuardOptions) {
		o.NotFound = o.NotFound.WithStatus(status).WithMessage(message)
	}
}

// WithForbidden overrides the failure for authenticated non-owners.
func WithForbidden(status int, message string) GuardOption {
	return func(o *GuardOptions) {
		o.Forbidden = o.Forbidden.WithStatus(status).WithMessage(message)
	}
}

// OwnershipGuard authorizes mutations of owned resources.
type OwnershipGuard interface {
	// EnsureOwner fails with a *domainerrors.BaseError carrying the HTTP status to answer with.
	EnsureOwner(ctx context.Context, authCtx entity.AuthContext, resourceID string, opts ...GuardOption) (*OwnershipResult, error)
}
