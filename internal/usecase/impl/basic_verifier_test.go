package impl

import (
	"context"
	"testing"
	"time"

	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
	mockRepo "orienteer/internal/mocks/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var basicNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestBasicVerifier(t *testing.T, eventRepo repository.EventRepository) *basicVerifier {
	t.Helper()

	return &basicVerifier{
		eventRepo: eventRepo,
		cipher:    newTestCipher(t),
		now:       func() time.Time { return basicNow },
	}
}

func requireReason(t *testing.T, err error, reason entity.FailureReason) {
	t.Helper()

	var authErr *domainerrors.AuthError
	require.True(t, errors.As(err, &authErr), "expected AuthError, got %v", err)
	assert.Equal(t, reason, authErr.Reason)
}

func TestBasicVerifier_Verify(t *testing.T) {
	c := newTestCipher(t)
	event := &entity.Event{ID: "event-1", AuthorID: "42"}
	live := func(plaintext string) *entity.EventPassword {
		return &entity.EventPassword{
			EventID:           "event-1",
			EncryptedPassword: sealed(t, c, plaintext),
			ExpiresAt:         basicNow.Add(time.Hour),
		}
	}

	tests := []struct {
		name     string
		password string
		setup    func(m *mockRepo.MockEventRepository)
		reason   entity.FailureReason
		ownerID  string
	}{
		{
			name:     "success returns owner",
			password: "correct",
			setup: func(m *mockRepo.MockEventRepository) {
				m.On("FindEventByID", mock.Anything, "event-1").Return(event, nil)
				m.On("FindEventPassword", mock.Anything, "event-1").Return(live("correct"), nil)
			},
			ownerID: "42",
		},
		{
			name:     "event not found",
			password: "correct",
			setup: func(m *mockRepo.MockEventRepository) {
				m.On("FindEventByID", mock.Anything, "event-1").Return(nil, repository.ErrEventNotFound)
			},
			reason: entity.ReasonBasicEventNotFound,
		},
		{
			name:     "event store failure",
			password: "correct",
			setup: func(m *mockRepo.MockEventRepository) {
				m.On("FindEventByID", mock.Anything, "event-1").Return(nil, errors.New("connection refused"))
			},
			reason: entity.ReasonBasicUnexpectedError,
		},
		{
			name:     "password not found",
			password: "correct",
			setup: func(m *mockRepo.MockEventRepository) {
				m.On("FindEventByID", mock.Anything, "event-1").Return(event, nil)
				m.On("FindEventPassword", mock.Anything, "event-1").Return(nil, repository.ErrEventPasswordNotFound)
			},
			reason: entity.ReasonBasicPasswordNotFound,
		},
		{
			name:     "expired in the past",
			password: "correct",
			setup: func(m *mockRepo.MockEventRepository) {
				p := live("correct")
				p.ExpiresAt = basicNow.Add(-time.Minute)
				m.On("FindEventByID", mock.Anything, "event-1").Return(event, nil)
				m.On("FindEventPassword", mock.Anything, "event-1").Return(p, nil)
			},
			reason: entity.ReasonBasicPasswordExpired,
		},
		{
			name:     "expiry equal to now is expired",
			password: "correct",
			setup: func(m *mockRepo.MockEventRepository) {
				p := live("correct")
				p.ExpiresAt = basicNow
				m.On("FindEventByID", mock.Anything, "event-1").Return(event, nil)
				m.On("FindEventPassword", mock.Anything, "event-1").Return(p, nil)
			},
			reason: entity.ReasonBasicPasswordExpired,
		},
		{
			name:     "undecodable blob",
			password: "correct",
			setup: func(m *mockRepo.MockEventRepository) {
				p := live("correct")
				p.EncryptedPassword = []byte(`{"unexpected":true}`)
				m.On("FindEventByID", mock.Anything, "event-1").Return(event, nil)
				m.On("FindEventPassword", mock.Anything, "event-1").Return(p, nil)
			},
			reason: entity.ReasonBasicPasswordDecryptFailed,
		},
		{
			name:     "blank decrypted secret",
			password: "   ",
			setup: func(m *mockRepo.MockEventRepository) {
				m.On("FindEventByID", mock.Anything, "event-1").Return(event, nil)
				m.On("FindEventPassword", mock.Anything, "event-1").Return(live("   "), nil)
			},
			reason: entity.ReasonBasicPasswordDecryptFailed,
		},
		{
			name:     "mismatch",
			password: "wrongpass",
			setup: func(m *mockRepo.MockEventRepository) {
				m.On("FindEventByID", mock.Anything, "event-1").Return(event, nil)
				m.On("FindEventPassword", mock.Anything, "event-1").Return(live("correct"), nil)
			},
			reason: entity.ReasonBasicPasswordMismatch,
		},
		{
			name:     "comparison is exact",
			password: "Correct",
			setup: func(m *mockRepo.MockEventRepository) {
				m.On("FindEventByID", mock.Anything, "event-1").Return(event, nil)
				m.On("FindEventPassword", mock.Anything, "event-1").Return(live("correct"), nil)
			},
			reason: entity.ReasonBasicPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := mockRepo.NewMockEventRepository(t)
			tt.setup(eventRepo)

			ownerID, err := newTestBasicVerifier(t, eventRepo).Verify(context.Background(), "event-1", tt.password)
			if tt.reason == entity.ReasonNone {
				require.NoError(t, err)
				assert.Equal(t, tt.ownerID, ownerID)

				return
			}

			assert.Empty(t, ownerID)
			requireReason(t, err, tt.reason)

			var authErr *domainerrors.AuthError
			require.True(t, errors.As(err, &authErr))
			assert.Equal(t, "event-1", authErr.EventID)
		})
	}
}
