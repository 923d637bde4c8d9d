package impl

import (
	"context"
	"net/http"
	"testing"
	"time"

	"orienteer/config"
	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
	mockRepo "orienteer/internal/mocks/repository"
	mockUsecase "orienteer/internal/mocks/usecase"
	"orienteer/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var passwordNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestEventPasswordService(t *testing.T, guard usecase.OwnershipGuard, eventRepo repository.EventRepository) *eventPasswordService {
	t.Helper()

	uc := NewEventPasswordService(EventPasswordServiceParams{
		Guard:     guard,
		EventRepo: eventRepo,
		Cipher:    newTestCipher(t),
		Secrets:   &sequenceSecrets{},
		Config:    newTestConfig(),
		Logger:    newDiscardLogger(),
	})
	srv, ok := uc.(*eventPasswordService)
	require.True(t, ok)
	srv.now = func() time.Time { return passwordNow }

	return srv
}

func TestEventPasswordService_Rotate(t *testing.T) {
	owner := entity.BearerAuthenticated("42", "", nil)
	guard := mockUsecase.NewMockOwnershipGuard(t)
	guard.On("EnsureOwner", mock.Anything, owner, "event-1").
		Return(&usecase.OwnershipResult{OwnerID: "42"}, nil)

	eventRepo := mockRepo.NewMockEventRepository(t)
	var stored *entity.EventPassword
	eventRepo.On("SaveEventPassword", mock.Anything, mock.AnythingOfType("*entity.EventPassword")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*entity.EventPassword)
		}).
		Return(nil)

	srv := newTestEventPasswordService(t, guard, eventRepo)
	issued, err := srv.Rotate(context.Background(), owner, "event-1")
	require.NoError(t, err)

	assert.Equal(t, "event-1", issued.EventID)
	assert.Len(t, issued.Password, eventPasswordLength)
	assert.Equal(t, passwordNow.Add(config.DefaultEventPasswordTTL), issued.ExpiresAt)

	// Only ciphertext is stored, and it opens to the issued password.
	require.NotNil(t, stored)
	assert.NotContains(t, string(stored.EncryptedPassword), issued.Password)
	plaintext, err := newTestCipher(t).Open(stored.EncryptedPassword)
	require.NoError(t, err)
	assert.Equal(t, issued.Password, plaintext)
	assert.Equal(t, issued.ExpiresAt, stored.ExpiresAt)
}

func TestEventPasswordService_Rotate_GuardDenies(t *testing.T) {
	stranger := entity.BearerAuthenticated("7", "", nil)
	guard := mockUsecase.NewMockOwnershipGuard(t)
	guard.On("EnsureOwner", mock.Anything, stranger, "event-1").Return(nil, domainerrors.ErrNotResourceOwner)
	eventRepo := mockRepo.NewMockEventRepository(t)

	_, err := newTestEventPasswordService(t, guard, eventRepo).Rotate(context.Background(), stranger, "event-1")

	var baseErr *domainerrors.BaseError
	require.True(t, errors.As(err, &baseErr))
	assert.Equal(t, http.StatusForbidden, baseErr.HTTPCode())
	eventRepo.AssertNotCalled(t, "SaveEventPassword", mock.Anything, mock.Anything)
}

func TestEventPasswordService_Revoke(t *testing.T) {
	owner := entity.BearerAuthenticated("42", "", nil)

	t.Run("deleted", func(t *testing.T) {
		guard := mockUsecase.NewMockOwnershipGuard(t)
		guard.On("EnsureOwner", mock.Anything, owner, "event-1").Return(&usecase.OwnershipResult{OwnerID: "42"}, nil)
		eventRepo := mockRepo.NewMockEventRepository(t)
		eventRepo.On("DeleteEventPassword", mock.Anything, "event-1").Return(nil)

		require.NoError(t, newTestEventPasswordService(t, guard, eventRepo).Revoke(context.Background(), owner, "event-1"))
	})

	t.Run("nothing to revoke", func(t *testing.T) {
		guard := mockUsecase.NewMockOwnershipGuard(t)
		guard.On("EnsureOwner", mock.Anything, owner, "event-1").Return(&usecase.OwnershipResult{OwnerID: "42"}, nil)
		eventRepo := mockRepo.NewMockEventRepository(t)
		eventRepo.On("DeleteEventPassword", mock.Anything, "event-1").Return(repository.ErrEventPasswordNotFound)

		err := newTestEventPasswordService(t, guard, eventRepo).Revoke(context.Background(), owner, "event-1")
		assert.True(t, errors.Is(err, domainerrors.ErrEventPasswordNotFound))
	})
}
