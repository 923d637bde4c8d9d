package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/repository"
	"orienteer/internal/domain/service"
	mockRepo "orienteer/internal/mocks/repository"
	mockService "orienteer/internal/mocks/service"
	"orienteer/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type oauthFixture struct {
	srv        *oauthService
	hasher     *fakeHasher
	tokens     service.TokenService
	clientRepo *mockRepo.MockOAuthClientRepository
	tokenRepo  *mockRepo.MockOAuthTokenRepository
	userRepo   *mockRepo.MockUserRepository
	recorder   *mockService.RecordingAuthRecorder
	now        time.Time
}

func newOAuthFixture(t *testing.T) *oauthFixture {
	t.Helper()

	f := &oauthFixture{
		hasher:     &fakeHasher{},
		tokens:     newTestTokenService(t),
		clientRepo: mockRepo.NewMockOAuthClientRepository(t),
		tokenRepo:  mockRepo.NewMockOAuthTokenRepository(t),
		userRepo:   mockRepo.NewMockUserRepository(t),
		recorder:   &mockService.RecordingAuthRecorder{},
		now:        time.Now(),
	}

	model, err := NewOAuthService(OAuthServiceParams{
		TxManager: &mockRepo.PassthroughTransactionManager{
			Factory: &mockRepo.StaticRepositoryFactory{Users: f.userRepo, Clients: f.clientRepo},
		},
		ClientRepo:   f.clientRepo,
		TokenRepo:    f.tokenRepo,
		UserRepo:     f.userRepo,
		Hasher:       f.hasher,
		TokenService: f.tokens,
		Secrets:      &sequenceSecrets{},
		Recorder:     f.recorder,
		Config:       newTestConfig(),
		Logger:       newDiscardLogger(),
	})
	require.NoError(t, err)

	srv, ok := model.(*oauthService)
	require.True(t, ok)
	srv.now = func() time.Time { return f.now }
	f.srv = srv

	return f
}

func testClient() *entity.OAuthClient {
	return &entity.OAuthClient{
		ID:           "0190a3c0-0000-7000-8000-000000000001",
		ClientID:     "client-1",
		HashedSecret: "hashed:s3cret",
		OwnerUserID:  "42",
		Grants:       []string{"client_credentials", "refresh_token"},
		Scopes:       []string{"events:read", "events:write"},
	}
}

func TestOAuthService_GetClient(t *testing.T) {
	t.Run("without secret", func(t *testing.T) {
		f := newOAuthFixture(t)
		f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(testClient(), nil)

		client, err := f.srv.GetClient(context.Background(), "client-1", "")
		require.NoError(t, err)
		assert.Equal(t, "client-1", client.ClientID)
		assert.Empty(t, f.hasher.checks)
	})

	t.Run("matching secret", func(t *testing.T) {
		f := newOAuthFixture(t)
		f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(testClient(), nil)

		client, err := f.srv.GetClient(context.Background(), "client-1", "s3cret")
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("wrong secret and unknown client look the same", func(t *testing.T) {
		f := newOAuthFixture(t)
		f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(testClient(), nil)
		f.clientRepo.On("FindClientByClientID", mock.Anything, "ghost").Return(nil, repository.ErrOAuthClientNotFound)

		wrong, err := f.srv.GetClient(context.Background(), "client-1", "guess")
		require.NoError(t, err)
		assert.Nil(t, wrong)

		unknown, err := f.srv.GetClient(context.Background(), "ghost", "guess")
		require.NoError(t, err)
		assert.Nil(t, unknown)

		// Both paths paid one hash comparison.
		assert.Len(t, f.hasher.checks, 2)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newOAuthFixture(t)
		f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(nil, errors.New("timeout"))

		_, err := f.srv.GetClient(context.Background(), "client-1", "s3cret")
		assert.Error(t, err)
	})
}

func TestOAuthService_SaveClient(t *testing.T) {
	f := newOAuthFixture(t)
	f.userRepo.On("FindByID", mock.Anything, "42").Return(&entity.User{ID: "42"}, nil)
	f.clientRepo.On("CreateClient", mock.Anything, mock.MatchedBy(func(c *entity.OAuthClient) bool {
		return c.OwnerUserID == "42" && c.HashedSecret == "hashed:"+strings.Repeat("b", clientSecretLength)
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.OAuthClient).ID = "row-1"
	}).Return(nil)

	registered, err := f.srv.SaveClient(context.Background(), &usecase.RegisterClientInput{
		OwnerID:      "42",
		Grants:       []string{"client_credentials", "refresh_token"},
		RedirectURIs: []string{"https://example.com/cb"},
		Scopes:       []string{"events:read"},
	})
	require.NoError(t, err)

	assert.Equal(t, "row-1", registered.ID)
	assert.Len(t, registered.ClientID, clientIDLength)
	assert.Len(t, registered.ClientSecret, clientSecretLength)
	assert.Equal(t, []string{"events:read"}, registered.Scopes)
}

func TestOAuthService_SaveClient_DefaultsToClientCredentials(t *testing.T) {
	f := newOAuthFixture(t)
	f.userRepo.On("FindByID", mock.Anything, "42").Return(&entity.User{ID: "42"}, nil)
	f.clientRepo.On("CreateClient", mock.Anything, mock.MatchedBy(func(c *entity.OAuthClient) bool {
		return len(c.Grants) == 1 && c.Grants[0] == "client_credentials"
	})).Return(nil)

	_, err := f.srv.SaveClient(context.Background(), &usecase.RegisterClientInput{OwnerID: "42"})
	require.NoError(t, err)
}

func TestOAuthService_SaveClient_Failures(t *testing.T) {
	t.Run("missing owner", func(t *testing.T) {
		f := newOAuthFixture(t)

		_, err := f.srv.SaveClient(context.Background(), &usecase.RegisterClientInput{})
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	})

	t.Run("unsupported grant", func(t *testing.T) {
		f := newOAuthFixture(t)

		_, err := f.srv.SaveClient(context.Background(), &usecase.RegisterClientInput{OwnerID: "42", Grants: []string{"password"}})
		assert.True(t, errors.Is(err, domainerrors.ErrOAuthUnsupportedGrantType))
	})

	t.Run("unknown owner rolls back", func(t *testing.T) {
		f := newOAuthFixture(t)
		f.userRepo.On("FindByID", mock.Anything, "42").Return(nil, repository.ErrUserNotFound)

		_, err := f.srv.SaveClient(context.Background(), &usecase.RegisterClientInput{OwnerID: "42"})
		assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
		var appErr domainerrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "Client owner not found", appErr.Message())
		f.clientRepo.AssertNotCalled(t, "CreateClient", mock.Anything, mock.Anything)
	})
}

func TestOAuthService_SaveToken(t *testing.T) {
	f := newOAuthFixture(t)
	client := testClient()
	owner := &entity.User{ID: "42", Email: "owner@example.com"}
	f.userRepo.On("FindByID", mock.Anything, "42").Return(owner, nil)
	f.tokenRepo.On("SaveTokenPair", mock.Anything,
		mock.MatchedBy(func(a *entity.OAuthAccessToken) bool {
			return a.Token == "access" && a.UserID == "42" && a.ClientID == "client-1"
		}),
		mock.MatchedBy(func(r *entity.OAuthRefreshToken) bool { return r != nil && r.Token == "refresh" }),
	).Return(nil)

	saved, err := f.srv.SaveToken(context.Background(), &entity.Token{
		AccessToken:           "access",
		AccessTokenExpiresAt:  f.now.Add(time.Hour),
		RefreshToken:          "refresh",
		RefreshTokenExpiresAt: f.now.Add(24 * time.Hour),
	}, client, nil)
	require.NoError(t, err)
	assert.Equal(t, owner, saved.User)
	assert.Equal(t, client, saved.Client)
}

func TestOAuthService_SaveToken_AccessOnly(t *testing.T) {
	f := newOAuthFixture(t)
	f.tokenRepo.On("SaveTokenPair", mock.Anything, mock.Anything, (*entity.OAuthRefreshToken)(nil)).Return(nil)

	_, err := f.srv.SaveToken(context.Background(), &entity.Token{AccessToken: "access"}, testClient(), &entity.User{ID: "7"})
	require.NoError(t, err)
}

func TestOAuthService_GetTokens_ExpiredIsAbsent(t *testing.T) {
	f := newOAuthFixture(t)
	f.tokenRepo.On("FindAccessToken", mock.Anything, "live").
		Return(&entity.OAuthAccessToken{Token: "live", ExpiresAt: f.now.Add(time.Minute)}, nil)
	f.tokenRepo.On("FindAccessToken", mock.Anything, "stale").
		Return(&entity.OAuthAccessToken{Token: "stale", ExpiresAt: f.now}, nil)
	f.tokenRepo.On("FindAccessToken", mock.Anything, "missing").
		Return(nil, repository.ErrOAuthTokenNotFound)
	f.tokenRepo.On("FindRefreshToken", mock.Anything, "stale-refresh").
		Return(&entity.OAuthRefreshToken{Token: "stale-refresh", ExpiresAt: f.now.Add(-time.Second)}, nil)

	live, err := f.srv.GetAccessToken(context.Background(), "live")
	require.NoError(t, err)
	assert.NotNil(t, live)

	stale, err := f.srv.GetAccessToken(context.Background(), "stale")
	require.NoError(t, err)
	assert.Nil(t, stale)

	missing, err := f.srv.GetAccessToken(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	refresh, err := f.srv.GetRefreshToken(context.Background(), "stale-refresh")
	require.NoError(t, err)
	assert.Nil(t, refresh)
}

func TestOAuthService_RevokeToken(t *testing.T) {
	f := newOAuthFixture(t)
	f.tokenRepo.On("DeleteRefreshToken", mock.Anything, "refresh").Return(true, nil).Once()
	f.tokenRepo.On("DeleteRefreshToken", mock.Anything, "refresh").Return(false, nil).Once()

	first, err := f.srv.RevokeToken(context.Background(), "refresh")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := f.srv.RevokeToken(context.Background(), "refresh")
	require.NoError(t, err)
	assert.False(t, second)
}

func TestOAuthService_ValidateRequestedScopes(t *testing.T) {
	f := newOAuthFixture(t)

	assert.True(t, f.srv.ValidateRequestedScopes(nil, []string{"anything"}))
	assert.True(t, f.srv.ValidateRequestedScopes([]string{}, nil))
	assert.True(t, f.srv.ValidateRequestedScopes([]string{"read"}, []string{"read", "write"}))
	assert.True(t, f.srv.ValidateRequestedScopes([]string{"write", "read"}, []string{"read", "write"}))
	assert.False(t, f.srv.ValidateRequestedScopes([]string{"admin"}, []string{"read"}))
	assert.False(t, f.srv.ValidateRequestedScopes([]string{"read"}, nil))
}

func TestOAuthService_Grant_ClientCredentials(t *testing.T) {
	f := newOAuthFixture(t)
	f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(testClient(), nil)
	f.userRepo.On("FindByID", mock.Anything, "42").Return(&entity.User{ID: "42"}, nil)
	f.tokenRepo.On("SaveTokenPair", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	token, err := f.srv.Grant(context.Background(), &usecase.GrantRequest{
		GrantType:    entity.GrantClientCredentials,
		ClientID:     "client-1",
		ClientSecret: "s3cret",
		Scopes:       []string{"events:read"},
	})
	require.NoError(t, err)

	payload, err := f.tokens.Verify(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "42", payload.SubjectID)
	assert.Equal(t, "client-1", payload.ClientID)
	assert.Equal(t, []string{"events:read"}, payload.Scopes)
	assert.Len(t, token.RefreshToken, refreshTokenLength)
	assert.Equal(t, f.now.Add(time.Hour), token.AccessTokenExpiresAt)
	assert.Equal(t, []entity.GrantType{entity.GrantClientCredentials}, f.recorder.Issued)
}

func TestOAuthService_Grant_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		req   *usecase.GrantRequest
		setup func(f *oauthFixture)
		want  *domainerrors.BaseError
	}{
		{
			name: "unsupported grant",
			req:  &usecase.GrantRequest{GrantType: "password", ClientID: "client-1", ClientSecret: "s3cret"},
			want: domainerrors.ErrOAuthUnsupportedGrantType,
		},
		{
			name: "missing secret",
			req:  &usecase.GrantRequest{GrantType: entity.GrantClientCredentials, ClientID: "client-1"},
			want: domainerrors.ErrOAuthInvalidClient,
		},
		{
			name: "wrong secret",
			req:  &usecase.GrantRequest{GrantType: entity.GrantClientCredentials, ClientID: "client-1", ClientSecret: "nope"},
			setup: func(f *oauthFixture) {
				f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(testClient(), nil)
			},
			want: domainerrors.ErrOAuthInvalidClient,
		},
		{
			name: "grant not registered",
			req:  &usecase.GrantRequest{GrantType: entity.GrantRefreshToken, ClientID: "client-1", ClientSecret: "s3cret", RefreshToken: "r"},
			setup: func(f *oauthFixture) {
				c := testClient()
				c.Grants = []string{"client_credentials"}
				f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(c, nil)
			},
			want: domainerrors.ErrOAuthUnauthorizedClient,
		},
		{
			name: "scope escalation",
			req:  &usecase.GrantRequest{GrantType: entity.GrantClientCredentials, ClientID: "client-1", ClientSecret: "s3cret", Scopes: []string{"admin"}},
			setup: func(f *oauthFixture) {
				f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(testClient(), nil)
			},
			want: domainerrors.ErrOAuthInvalidScope,
		},
		{
			name: "unknown refresh token",
			req:  &usecase.GrantRequest{GrantType: entity.GrantRefreshToken, ClientID: "client-1", ClientSecret: "s3cret", RefreshToken: "r"},
			setup: func(f *oauthFixture) {
				f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(testClient(), nil)
				f.tokenRepo.On("FindRefreshToken", mock.Anything, "r").Return(nil, repository.ErrOAuthTokenNotFound)
			},
			want: domainerrors.ErrOAuthInvalidGrant,
		},
		{
			name: "refresh token of another client",
			req:  &usecase.GrantRequest{GrantType: entity.GrantRefreshToken, ClientID: "client-1", ClientSecret: "s3cret", RefreshToken: "r"},
			setup: func(f *oauthFixture) {
				f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(testClient(), nil)
				f.tokenRepo.On("FindRefreshToken", mock.Anything, "r").
					Return(&entity.OAuthRefreshToken{Token: "r", ClientID: "client-2", UserID: "42", ExpiresAt: time.Now().Add(time.Hour)}, nil)
			},
			want: domainerrors.ErrOAuthInvalidGrant,
		},
		{
			name: "refresh token consumed concurrently",
			req:  &usecase.GrantRequest{GrantType: entity.GrantRefreshToken, ClientID: "client-1", ClientSecret: "s3cret", RefreshToken: "r"},
			setup: func(f *oauthFixture) {
				f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(testClient(), nil)
				f.tokenRepo.On("FindRefreshToken", mock.Anything, "r").
					Return(&entity.OAuthRefreshToken{Token: "r", ClientID: "client-1", UserID: "42", ExpiresAt: time.Now().Add(time.Hour)}, nil)
				f.userRepo.On("FindByID", mock.Anything, "42").Return(&entity.User{ID: "42"}, nil)
				f.tokenRepo.On("DeleteRefreshToken", mock.Anything, "r").Return(false, nil)
			},
			want: domainerrors.ErrOAuthInvalidGrant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOAuthFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}

			token, err := f.srv.Grant(context.Background(), tt.req)
			assert.Nil(t, token)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Empty(t, f.recorder.Issued)
		})
	}
}

func TestOAuthService_Grant_RefreshRotates(t *testing.T) {
	f := newOAuthFixture(t)
	f.clientRepo.On("FindClientByClientID", mock.Anything, "client-1").Return(testClient(), nil)
	f.tokenRepo.On("FindRefreshToken", mock.Anything, "old-refresh").
		Return(&entity.OAuthRefreshToken{
			Token:     "old-refresh",
			ClientID:  "client-1",
			UserID:    "42",
			Scopes:    []string{"events:read"},
			ExpiresAt: f.now.Add(time.Hour),
		}, nil)
	f.userRepo.On("FindByID", mock.Anything, "42").Return(&entity.User{ID: "42"}, nil)
	f.tokenRepo.On("DeleteRefreshToken", mock.Anything, "old-refresh").Return(true, nil).Once()
	f.tokenRepo.On("SaveTokenPair", mock.Anything, mock.Anything,
		mock.MatchedBy(func(r *entity.OAuthRefreshToken) bool { return r != nil && r.Token != "old-refresh" }),
	).Return(nil)

	token, err := f.srv.Grant(context.Background(), &usecase.GrantRequest{
		GrantType:    entity.GrantRefreshToken,
		ClientID:     "client-1",
		ClientSecret: "s3cret",
		RefreshToken: "old-refresh",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "old-refresh", token.RefreshToken)
	assert.Equal(t, []string{"events:read"}, token.Scopes)
	assert.Equal(t, "42", token.User.ID)
	assert.Equal(t, []entity.GrantType{entity.GrantRefreshToken}, f.recorder.Issued)
}
