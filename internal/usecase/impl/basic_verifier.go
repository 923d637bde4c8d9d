// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
	"orienteer/internal/domain/service"
	"orienteer/internal/usecase"

	"github.com/pkg/errors"
)

// basicVerifier implements usecase.BasicVerifier against the event store.
// It only reads the password record, so concurrent attempts for one event are safe.
type basicVerifier struct {
	eventRepo repository.EventRepository
	cipher    service.Cipher
	now       func() time.Time
}

// NewBasicVerifier is the constructor for basicVerifier.
func NewBasicVerifier(eventRepo repository.EventRepository, cipher service.Cipher) usecase.BasicVerifier {
	return &basicVerifier{
		eventRepo: eventRepo,
		cipher:    cipher,
		now:       time.Now,
	}
}

// Verify checks the password of an event and returns the event's owner id.
func (v *basicVerifier) Verify(ctx context.Context, eventID, password string) (string, error) {
	event, err := v.eventRepo.FindEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return "", domainerrors.NewAuthError(entity.ReasonBasicEventNotFound, eventID, err)
		}

		return "", domainerrors.NewAuthError(entity.ReasonBasicUnexpectedError, eventID, err)
	}

	record, err := v.eventRepo.FindEventPassword(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventPasswordNotFound) {
			return "", domainerrors.NewAuthError(entity.ReasonBasicPasswordNotFound, eventID, err)
		}

		return "", domainerrors.NewAuthError(entity.ReasonBasicUnexpectedError, eventID, err)
	}

	if record.IsExpired(v.now()) {
		return "", domainerrors.NewAuthError(entity.ReasonBasicPasswordExpired, eventID, nil)
	}

	stored, err := v.cipher.Open(record.EncryptedPassword)
	if err != nil {
		return "", domainerrors.NewAuthError(entity.ReasonBasicPasswordDecryptFailed, eventID, err)
	}

	// An empty secret is never valid.
	if strings.TrimSpace(stored) == "" {
		return "", domainerrors.NewAuthError(entity.ReasonBasicPasswordDecryptFailed, eventID, errors.New("decrypted password is empty"))
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return "", domainerrors.NewAuthError(entity.ReasonBasicPasswordMismatch, eventID, nil)
	}

	return event.AuthorID, nil
}
