// Package service provides testify mocks of the domain service interfaces.
package service

import (
	"testing"
	"time"

	"orienteer/internal/domain/entity"
	"orienteer/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockTokenService mocks service.TokenService.
type MockTokenService struct{ mock.Mock }

// NewMockTokenService creates a mock whose expectations are asserted on cleanup.
func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) Sign(payload service.TokenPayload, ttl time.Duration) (string, error) {
	args := m.Called(payload, ttl)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string) (*service.TokenPayload, error) {
	args := m.Called(token)
	payload, _ := args.Get(0).(*service.TokenPayload)

	return payload, args.Error(1)
}

func (m *MockTokenService) SignActivation(subjectID string) (string, error) {
	args := m.Called(subjectID)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) VerifyActivation(token string) (string, error) {
	args := m.Called(token)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) AccessTokenDuration() time.Duration {
	args := m.Called()
	d, _ := args.Get(0).(time.Duration)

	return d
}

// MockPasswordHasher mocks service.PasswordHasher.
type MockPasswordHasher struct{ mock.Mock }

// NewMockPasswordHasher creates a mock whose expectations are asserted on cleanup.
func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// MockSecretGenerator mocks service.SecretGenerator.
type MockSecretGenerator struct{ mock.Mock }

// NewMockSecretGenerator creates a mock whose expectations are asserted on cleanup.
func NewMockSecretGenerator(t *testing.T) *MockSecretGenerator {
	m := &MockSecretGenerator{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSecretGenerator) Hex(length int) (string, error) {
	args := m.Called(length)

	return args.String(0), args.Error(1)
}

// MockCipher mocks service.Cipher.
type MockCipher struct{ mock.Mock }

// NewMockCipher creates a mock whose expectations are asserted on cleanup.
func NewMockCipher(t *testing.T) *MockCipher {
	m := &MockCipher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCipher) Encrypt(plaintext string) (*entity.ModernPayload, error) {
	args := m.Called(plaintext)
	payload, _ := args.Get(0).(*entity.ModernPayload)

	return payload, args.Error(1)
}

func (m *MockCipher) Decrypt(payload entity.EncryptedPayload) (string, error) {
	args := m.Called(payload)

	return args.String(0), args.Error(1)
}

func (m *MockCipher) Seal(plaintext string) ([]byte, error) {
	args := m.Called(plaintext)
	blob, _ := args.Get(0).([]byte)

	return blob, args.Error(1)
}

func (m *MockCipher) Open(blob []byte) (string, error) {
	args := m.Called(blob)

	return args.String(0), args.Error(1)
}

// RecordingAuthRecorder keeps every observation in memory.
type RecordingAuthRecorder struct {
	Resolutions []entity.FailureReason
	Denials     []int
	Issued      []entity.GrantType
}

func (r *RecordingAuthRecorder) RecordResolution(_ entity.Scheme, reason entity.FailureReason) {
	r.Resolutions = append(r.Resolutions, reason)
}

func (r *RecordingAuthRecorder) RecordOwnershipDenial(status int) {
	r.Denials = append(r.Denials, status)
}

func (r *RecordingAuthRecorder) RecordTokenIssued(grant entity.GrantType) {
	r.Issued = append(r.Issued, grant)
}
