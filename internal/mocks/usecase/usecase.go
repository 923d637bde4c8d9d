// Package usecase provides testify mocks of the usecase interfaces.
package usecase

import (
	"context"
	"testing"

	"orienteer/internal/domain/entity"
	"orienteer/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// MockOAuthModel mocks usecase.OAuthModel.
type MockOAuthModel struct{ mock.Mock }

// NewMockOAuthModel creates a mock whose expectations are asserted on cleanup.
func NewMockOAuthModel(t *testing.T) *MockOAuthModel {
	m := &MockOAuthModel{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOAuthModel) GetClient(ctx context.Context, clientID, clientSecret string) (*entity.OAuthClient, error) {
	args := m.Called(ctx, clientID, clientSecret)
	client, _ := args.Get(0).(*entity.OAuthClient)

	return client, args.Error(1)
}

func (m *MockOAuthModel) SaveClient(ctx context.Context, input *usecase.RegisterClientInput) (*entity.RegisteredClient, error) {
	args := m.Called(ctx, input)
	client, _ := args.Get(0).(*entity.RegisteredClient)

	return client, args.Error(1)
}

func (m *MockOAuthModel) SaveToken(ctx context.Context, token *entity.Token, client *entity.OAuthClient, user *entity.User) (*entity.Token, error) {
	args := m.Called(ctx, token, client, user)
	saved, _ := args.Get(0).(*entity.Token)

	return saved, args.Error(1)
}

func (m *MockOAuthModel) GetAccessToken(ctx context.Context, accessToken string) (*entity.OAuthAccessToken, error) {
	args := m.Called(ctx, accessToken)
	token, _ := args.Get(0).(*entity.OAuthAccessToken)

	return token, args.Error(1)
}

func (m *MockOAuthModel) GetRefreshToken(ctx context.Context, refreshToken string) (*entity.OAuthRefreshToken, error) {
	args := m.Called(ctx, refreshToken)
	token, _ := args.Get(0).(*entity.OAuthRefreshToken)

	return token, args.Error(1)
}

func (m *MockOAuthModel) RevokeToken(ctx context.Context, refreshToken string) (bool, error) {
	args := m.Called(ctx, refreshToken)

	return args.Bool(0), args.Error(1)
}

func (m *MockOAuthModel) ValidateRequestedScopes(requested, granted []string) bool {
	return m.Called(requested, granted).Bool(0)
}

func (m *MockOAuthModel) Grant(ctx context.Context, req *usecase.GrantRequest) (*entity.Token, error) {
	args := m.Called(ctx, req)
	token, _ := args.Get(0).(*entity.Token)

	return token, args.Error(1)
}

// MockBasicVerifier mocks usecase.BasicVerifier.
type MockBasicVerifier struct{ mock.Mock }

// NewMockBasicVerifier creates a mock whose expectations are asserted on cleanup.
func NewMockBasicVerifier(t *testing.T) *MockBasicVerifier {
	m := &MockBasicVerifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockBasicVerifier) Verify(ctx context.Context, eventID, password string) (string, error) {
	args := m.Called(ctx, eventID, password)

	return args.String(0), args.Error(1)
}

// MockAuthResolver mocks usecase.AuthResolver.
type MockAuthResolver struct{ mock.Mock }

// NewMockAuthResolver creates a mock whose expectations are asserted on cleanup.
func NewMockAuthResolver(t *testing.T) *MockAuthResolver {
	m := &MockAuthResolver{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAuthResolver) Resolve(ctx context.Context, authorizationHeader string) entity.AuthContext {
	args := m.Called(ctx, authorizationHeader)
	authCtx, _ := args.Get(0).(entity.AuthContext)

	return authCtx
}

// MockOwnershipGuard mocks usecase.OwnershipGuard.
type MockOwnershipGuard struct{ mock.Mock }

// NewMockOwnershipGuard creates a mock whose expectations are asserted on cleanup.
func NewMockOwnershipGuard(t *testing.T) *MockOwnershipGuard {
	m := &MockOwnershipGuard{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOwnershipGuard) EnsureOwner(ctx context.Context, authCtx entity.AuthContext, resourceID string, opts ...usecase.GuardOption) (*usecase.OwnershipResult, error) {
	args := m.Called(ctx, authCtx, resourceID)
	result, _ := args.Get(0).(*usecase.OwnershipResult)

	return result, args.Error(1)
}

// MockEventPasswordUsecase mocks usecase.EventPasswordUsecase.
type MockEventPasswordUsecase struct{ mock.Mock }

// NewMockEventPasswordUsecase creates a mock whose expectations are asserted on cleanup.
func NewMockEventPasswordUsecase(t *testing.T) *MockEventPasswordUsecase {
	m := &MockEventPasswordUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventPasswordUsecase) Rotate(ctx context.Context, authCtx entity.AuthContext, eventID string) (*entity.IssuedEventPassword, error) {
	args := m.Called(ctx, authCtx, eventID)
	issued, _ := args.Get(0).(*entity.IssuedEventPassword)

	return issued, args.Error(1)
}

func (m *MockEventPasswordUsecase) Revoke(ctx context.Context, authCtx entity.AuthContext, eventID string) error {
	return m.Called(ctx, authCtx, eventID).Error(0)
}
