package impl

import (
	"context"
	"log/slog"

	deliverycontext "orienteer/internal/delivery/context"
	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
	"orienteer/internal/domain/service"
	"orienteer/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ownershipGuard implements usecase.OwnershipGuard.
type ownershipGuard struct {
	defaultLookup repository.OwnershipRepository
	recorder      service.AuthRecorder
	logger        *slog.Logger
}

// OwnershipGuardParams holds dependencies for the guard, injected by Fx.
type OwnershipGuardParams struct {
	fx.In

	Lookup   repository.OwnershipRepository
	Recorder service.AuthRecorder `optional:"true"`
	Logger   *slog.Logger
}

// NewOwnershipGuard is the constructor for ownershipGuard. Lookup is the
// default resource table, normally events.
func NewOwnershipGuard(params OwnershipGuardParams) usecase.OwnershipGuard {
	recorder := params.Recorder
	if recorder == nil {
		recorder = service.NopAuthRecorder{}
	}

	return &ownershipGuard{
		defaultLookup: params.Lookup,
		recorder:      recorder,
		logger:        params.Logger,
	}
}

func (g *ownershipGuard) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, g.logger)
}

// EnsureOwner checks, in order: credentials present, basic scope, resource exists, author matches.
func (g *ownershipGuard) EnsureOwner(ctx context.Context, authCtx entity.AuthContext, resourceID string, opts ...usecase.GuardOption) (*usecase.OwnershipResult, error) {
	options := usecase.DefaultGuardOptions()
	options.Lookup = g.defaultLookup
	for _, opt := range opts {
		opt(&options)
	}

	if !authCtx.IsAuthenticated {
		return nil, g.deny(ctx, options.NoCredentials, resourceID, authCtx)
	}

	// Basic credentials are scoped to exactly one event.
	if authCtx.Scheme == entity.SchemeBasic && authCtx.EventID != resourceID {
		return nil, g.deny(ctx, options.ScopeMismatch, resourceID, authCtx)
	}

	if options.Lookup == nil {
		return nil, errors.New("ownership guard has no resource lookup")
	}

	record, err := options.Lookup.FindOwnership(ctx, resourceID)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return nil, g.deny(ctx, options.NotFound, resourceID, authCtx)
		}

		return nil, errors.Wrap(err, "failed to look up resource owner")
	}

	if record.AuthorID != authCtx.SubjectID {
		return nil, g.deny(ctx, options.Forbidden, resourceID, authCtx)
	}

	return &usecase.OwnershipResult{
		Resource: record,
		OwnerID:  authCtx.SubjectID,
	}, nil
}

func (g *ownershipGuard) deny(ctx context.Context, failure domainerrors.AppError, resourceID string, authCtx entity.AuthContext) error {
	g.recorder.RecordOwnershipDenial(failure.HTTPCode())
	g.log(ctx).Info("Ownership check denied",
		slog.String("resourceID", resourceID),
		slog.String("scheme", authCtx.Scheme.String()),
		slog.String("subjectID", authCtx.SubjectID),
		slog.String("code", failure.ErrorCode()),
	)

	return failure
}
