// Package repository provides testify mocks of the domain repository interfaces.
package repository

import (
	"context"
	"testing"

	"orienteer/internal/domain/entity"
	"orienteer/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks repository.UserRepository.
type MockUserRepository struct{ mock.Mock }

// NewMockUserRepository creates a mock whose expectations are asserted on cleanup.
func NewMockUserRepository(t *testing.T) *MockUserRepository {
	m := &MockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

// MockEventRepository mocks repository.EventRepository.
type MockEventRepository struct{ mock.Mock }

// NewMockEventRepository creates a mock whose expectations are asserted on cleanup.
func NewMockEventRepository(t *testing.T) *MockEventRepository {
	m := &MockEventRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventRepository) FindEventByID(ctx context.Context, id string) (*entity.Event, error) {
	args := m.Called(ctx, id)
	event, _ := args.Get(0).(*entity.Event)

	return event, args.Error(1)
}

func (m *MockEventRepository) FindEventPassword(ctx context.Context, eventID string) (*entity.EventPassword, error) {
	args := m.Called(ctx, eventID)
	password, _ := args.Get(0).(*entity.EventPassword)

	return password, args.Error(1)
}

func (m *MockEventRepository) SaveEventPassword(ctx context.Context, password *entity.EventPassword) error {
	return m.Called(ctx, password).Error(0)
}

func (m *MockEventRepository) DeleteEventPassword(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

// MockOwnershipRepository mocks repository.OwnershipRepository.
type MockOwnershipRepository struct{ mock.Mock }

// NewMockOwnershipRepository creates a mock whose expectations are asserted on cleanup.
func NewMockOwnershipRepository(t *testing.T) *MockOwnershipRepository {
	m := &MockOwnershipRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOwnershipRepository) FindOwnership(ctx context.Context, resourceID string) (*entity.OwnershipRecord, error) {
	args := m.Called(ctx, resourceID)
	record, _ := args.Get(0).(*entity.OwnershipRecord)

	return record, args.Error(1)
}

// MockOAuthClientRepository mocks repository.OAuthClientRepository.
type MockOAuthClientRepository struct{ mock.Mock }

// NewMockOAuthClientRepository creates a mock whose expectations are asserted on cleanup.
func NewMockOAuthClientRepository(t *testing.T) *MockOAuthClientRepository {
	m := &MockOAuthClientRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOAuthClientRepository) FindClientByClientID(ctx context.Context, clientID string) (*entity.OAuthClient, error) {
	args := m.Called(ctx, clientID)
	client, _ := args.Get(0).(*entity.OAuthClient)

	return client, args.Error(1)
}

func (m *MockOAuthClientRepository) CreateClient(ctx context.Context, client *entity.OAuthClient) error {
	return m.Called(ctx, client).Error(0)
}

// MockOAuthTokenRepository mocks repository.OAuthTokenRepository.
type MockOAuthTokenRepository struct{ mock.Mock }

// NewMockOAuthTokenRepository creates a mock whose expectations are asserted on cleanup.
func NewMockOAuthTokenRepository(t *testing.T) *MockOAuthTokenRepository {
	m := &MockOAuthTokenRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOAuthTokenRepository) SaveTokenPair(ctx context.Context, access *entity.OAuthAccessToken, refresh *entity.OAuthRefreshToken) error {
	return m.Called(ctx, access, refresh).Error(0)
}

func (m *MockOAuthTokenRepository) FindAccessToken(ctx context.Context, token string) (*entity.OAuthAccessToken, error) {
	args := m.Called(ctx, token)
	found, _ := args.Get(0).(*entity.OAuthAccessToken)

	return found, args.Error(1)
}

func (m *MockOAuthTokenRepository) FindRefreshToken(ctx context.Context, token string) (*entity.OAuthRefreshToken, error) {
	args := m.Called(ctx, token)
	found, _ := args.Get(0).(*entity.OAuthRefreshToken)

	return found, args.Error(1)
}

func (m *MockOAuthTokenRepository) DeleteRefreshToken(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)

	return args.Bool(0), args.Error(1)
}

// MockTransactionManager mocks repository.TransactionManager.
type MockTransactionManager struct{ mock.Mock }

// NewMockTransactionManager creates a mock whose expectations are asserted on cleanup.
func NewMockTransactionManager(t *testing.T) *MockTransactionManager {
	m := &MockTransactionManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTransactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	return m.Called(ctx, fn).Error(0)
}

// PassthroughTransactionManager runs the callback against a fixed factory, committing
// whatever the callback returns.
type PassthroughTransactionManager struct {
	Factory repository.RepositoryFactory
}

func (m *PassthroughTransactionManager) Execute(_ context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	return fn(m.Factory)
}

// StaticRepositoryFactory returns the repositories it was built with.
type StaticRepositoryFactory struct {
	Users   repository.UserRepository
	Events  repository.EventRepository
	Clients repository.OAuthClientRepository
}

func (f *StaticRepositoryFactory) UserRepo() repository.UserRepository {
	return f.Users
}

func (f *StaticRepositoryFactory) EventRepo() repository.EventRepository {
	return f.Events
}

func (f *StaticRepositoryFactory) OAuthClientRepo() repository.OAuthClientRepository {
	return f.Clients
}
