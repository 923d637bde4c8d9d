package impl

import (
	"context"
	"log/slog"
	"time"

	"orienteer/config"
	deliverycontext "orienteer/internal/delivery/context"
	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
	"orienteer/internal/domain/service"
	"orienteer/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const eventPasswordLength = 16

// eventPasswordService implements usecase.EventPasswordUsecase.
type eventPasswordService struct {
	guard     usecase.OwnershipGuard
	eventRepo repository.EventRepository
	cipher    service.Cipher
	secrets   service.SecretGenerator
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// EventPasswordServiceParams holds dependencies for the service, injected by Fx.
type EventPasswordServiceParams struct {
	fx.In

	Guard     usecase.OwnershipGuard
	EventRepo repository.EventRepository
	Cipher    service.Cipher
	Secrets   service.SecretGenerator
	Config    *config.Config
	Logger    *slog.Logger
}

// NewEventPasswordService is the constructor for eventPasswordService.
func NewEventPasswordService(params EventPasswordServiceParams) usecase.EventPasswordUsecase {
	ttl := config.DefaultEventPasswordTTL
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.EventPasswordTTL > 0 {
		ttl = params.Config.Auth.EventPasswordTTL
	}

	return &eventPasswordService{
		guard:     params.Guard,
		eventRepo: params.EventRepo,
		cipher:    params.Cipher,
		secrets:   params.Secrets,
		ttl:       ttl,
		now:       time.Now,
		logger:    params.Logger,
	}
}

func (srv *eventPasswordService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Rotate issues a fresh password, replacing any previous one.
func (srv *eventPasswordService) Rotate(ctx context.Context, authCtx entity.AuthContext, eventID string) (*entity.IssuedEventPassword, error) {
	if _, err := srv.guard.EnsureOwner(ctx, authCtx, eventID); err != nil {
		return nil, err
	}

	password, err := srv.secrets.Hex(eventPasswordLength)
	if err != nil {
		return nil, domainerrors.ErrEventPasswordIssueFailed.WrapMessage(err.Error())
	}

	blob, err := srv.cipher.Seal(password)
	if err != nil {
		return nil, domainerrors.ErrEventPasswordIssueFailed.WrapMessage(err.Error())
	}

	record := &entity.EventPassword{
		EventID:           eventID,
		EncryptedPassword: blob,
		ExpiresAt:         srv.now().Add(srv.ttl),
	}
	if err := srv.eventRepo.SaveEventPassword(ctx, record); err != nil {
		srv.log(ctx).Error("Failed to store event password", slog.String("eventID", eventID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to store event password")
	}

	srv.log(ctx).Info("Event password rotated", slog.String("eventID", eventID), slog.Time("expiresAt", record.ExpiresAt))

	return &entity.IssuedEventPassword{
		EventID:   eventID,
		Password:  password,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Revoke deletes the event's password.
func (srv *eventPasswordService) Revoke(ctx context.Context, authCtx entity.AuthContext, eventID string) error {
	if _, err := srv.guard.EnsureOwner(ctx, authCtx, eventID); err != nil {
		return err
	}

	if err := srv.eventRepo.DeleteEventPassword(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventPasswordNotFound) {
			return domainerrors.ErrEventPasswordNotFound
		}

		return errors.Wrap(err, "failed to delete event password")
	}

	srv.log(ctx).Info("Event password revoked", slog.String("eventID", eventID))

	return nil
}
