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

const (
	clientIDLength     = 32
	clientSecretLength = 64
	refreshTokenLength = 64

	// Compared against when a client id is unknown so both paths pay one bcrypt check.
	dummySecret = "orienteer-unknown-client"
)

var errClientOwnerNotFound = domainerrors.ErrNotFound.WithMessage("Client owner not found")

// oauthService implements usecase.OAuthModel.
type oauthService struct {
	txManager    repository.TransactionManager
	clientRepo   repository.OAuthClientRepository
	tokenRepo    repository.OAuthTokenRepository
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	secrets      service.SecretGenerator
	recorder     service.AuthRecorder
	refreshTTL   time.Duration
	dummyHash    string
	now          func() time.Time
	logger       *slog.Logger
}

// OAuthServiceParams holds dependencies for the OAuth model, injected by Fx.
type OAuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	ClientRepo   repository.OAuthClientRepository
	TokenRepo    repository.OAuthTokenRepository
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Secrets      service.SecretGenerator
	Recorder     service.AuthRecorder `optional:"true"`
	Config       *config.Config
	Logger       *slog.Logger
}

// NewOAuthService is the constructor for oauthService.
func NewOAuthService(params OAuthServiceParams) (usecase.OAuthModel, error) {
	refreshTTL := config.DefaultRefreshTokenTTL
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.RefreshTokenTTL > 0 {
		refreshTTL = params.Config.Auth.RefreshTokenTTL
	}

	recorder := params.Recorder
	if recorder == nil {
		recorder = service.NopAuthRecorder{}
	}

	dummyHash, err := params.Hasher.Hash(dummySecret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare dummy client hash")
	}

	return &oauthService{
		txManager:    params.TxManager,
		clientRepo:   params.ClientRepo,
		tokenRepo:    params.TokenRepo,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		secrets:      params.Secrets,
		recorder:     recorder,
		refreshTTL:   refreshTTL,
		dummyHash:    dummyHash,
		now:          time.Now,
		logger:       params.Logger,
	}, nil
}

func (srv *oauthService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetClient returns nil, nil for an unknown client and for a wrong secret alike.
func (srv *oauthService) GetClient(ctx context.Context, clientID, clientSecret string) (*entity.OAuthClient, error) {
	client, err := srv.clientRepo.FindClientByClientID(ctx, clientID)
	if errors.Is(err, repository.ErrOAuthClientNotFound) {
		if clientSecret != "" {
			srv.hasher.Check(clientSecret, srv.dummyHash)
		}

		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load oauth client")
	}

	if clientSecret != "" && !srv.hasher.Check(clientSecret, client.HashedSecret) {
		return nil, nil
	}

	return client, nil
}

// SaveClient registers a client with random credentials; the secret is hashed before storage.
func (srv *oauthService) SaveClient(ctx context.Context, input *usecase.RegisterClientInput) (*entity.RegisteredClient, error) {
	if input == nil || input.OwnerID == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("client owner is required")
	}

	grants := input.Grants
	if len(grants) == 0 {
		grants = []string{entity.GrantClientCredentials.String()}
	}
	for _, g := range grants {
		if !entity.GrantType(g).IsValid() {
			return nil, domainerrors.ErrOAuthUnsupportedGrantType.WrapMessage("cannot register grant " + g)
		}
	}

	clientID, err := srv.secrets.Hex(clientIDLength)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate client id")
	}
	clientSecret, err := srv.secrets.Hex(clientSecretLength)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate client secret")
	}
	hashedSecret, err := srv.hasher.Hash(clientSecret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash client secret")
	}

	client := &entity.OAuthClient{
		ClientID:     clientID,
		HashedSecret: hashedSecret,
		OwnerUserID:  input.OwnerID,
		Grants:       grants,
		RedirectURIs: input.RedirectURIs,
		Scopes:       input.Scopes,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.UserRepo().FindByID(ctx, input.OwnerID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errClientOwnerNotFound
			}

			return errors.Wrap(err, "failed to load client owner")
		}

		return repoFactory.OAuthClientRepo().CreateClient(ctx, client)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to register oauth client", slog.String("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute client registration transaction")
	}

	srv.log(ctx).Info("OAuth client registered", slog.String("ownerID", input.OwnerID), slog.String("clientID", clientID))

	return &entity.RegisteredClient{
		ID:           client.ID,
		ClientID:     client.ClientID,
		ClientSecret: clientSecret,
		Grants:       client.Grants,
		RedirectURIs: client.RedirectURIs,
		Scopes:       client.Scopes,
	}, nil
}

// SaveToken persists the pair and returns it composed with its client and user.
func (srv *oauthService) SaveToken(ctx context.Context, token *entity.Token, client *entity.OAuthClient, user *entity.User) (*entity.Token, error) {
	if token == nil || client == nil {
		return nil, errors.New("token and client are required")
	}

	if user == nil {
		owner, err := srv.userRepo.FindByID(ctx, client.OwnerUserID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve client owner")
		}
		user = owner
	}

	access := &entity.OAuthAccessToken{
		Token:     token.AccessToken,
		ExpiresAt: token.AccessTokenExpiresAt,
		ClientID:  client.ClientID,
		UserID:    user.ID,
		Scopes:    token.Scopes,
	}

	var refresh *entity.OAuthRefreshToken
	if token.RefreshToken != "" {
		refresh = &entity.OAuthRefreshToken{
			Token:     token.RefreshToken,
			ExpiresAt: token.RefreshTokenExpiresAt,
			ClientID:  client.ClientID,
			UserID:    user.ID,
			Scopes:    token.Scopes,
		}
	}

	if err := srv.tokenRepo.SaveTokenPair(ctx, access, refresh); err != nil {
		return nil, errors.Wrap(err, "failed to save token pair")
	}

	saved := *token
	saved.Client = client
	saved.User = user

	return &saved, nil
}

// GetAccessToken treats an expired token as absent.
func (srv *oauthService) GetAccessToken(ctx context.Context, accessToken string) (*entity.OAuthAccessToken, error) {
	token, err := srv.tokenRepo.FindAccessToken(ctx, accessToken)
	if errors.Is(err, repository.ErrOAuthTokenNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load access token")
	}
	if !token.ExpiresAt.After(srv.now()) {
		return nil, nil
	}

	return token, nil
}

// GetRefreshToken treats an expired token as absent.
func (srv *oauthService) GetRefreshToken(ctx context.Context, refreshToken string) (*entity.OAuthRefreshToken, error) {
	token, err := srv.tokenRepo.FindRefreshToken(ctx, refreshToken)
	if errors.Is(err, repository.ErrOAuthTokenNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load refresh token")
	}
	if !token.ExpiresAt.After(srv.now()) {
		return nil, nil
	}

	return token, nil
}

// RevokeToken is idempotent; a second call reports false.
func (srv *oauthService) RevokeToken(ctx context.Context, refreshToken string) (bool, error) {
	deleted, err := srv.tokenRepo.DeleteRefreshToken(ctx, refreshToken)
	if err != nil {
		return false, errors.Wrap(err, "failed to revoke refresh token")
	}

	return deleted, nil
}

// ValidateRequestedScopes is an order-independent subset check. An empty request is always valid.
func (srv *oauthService) ValidateRequestedScopes(requested, granted []string) bool {
	return scopesSubset(requested, granted)
}

func scopesSubset(requested, granted []string) bool {
	if len(requested) == 0 {
		return true
	}

	allowed := make(map[string]struct{}, len(granted))
	for _, s := range granted {
		allowed[s] = struct{}{}
	}
	for _, s := range requested {
		if _, ok := allowed[s]; !ok {
			return false
		}
	}

	return true
}

// Grant authenticates the client and dispatches on the grant type.
func (srv *oauthService) Grant(ctx context.Context, req *usecase.GrantRequest) (*entity.Token, error) {
	if req == nil || !req.GrantType.IsValid() {
		return nil, domainerrors.ErrOAuthUnsupportedGrantType
	}

	// Token endpoint clients are confidential; a secret is mandatory here.
	if req.ClientID == "" || req.ClientSecret == "" {
		return nil, domainerrors.ErrOAuthInvalidClient
	}
	client, err := srv.GetClient(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, err
	}
	if client == nil {
		srv.log(ctx).Warn("OAuth client authentication failed", slog.String("clientID", req.ClientID))

		return nil, domainerrors.ErrOAuthInvalidClient
	}
	if !client.AllowsGrant(req.GrantType) {
		return nil, domainerrors.ErrOAuthUnauthorizedClient
	}

	var token *entity.Token
	switch req.GrantType {
	case entity.GrantClientCredentials:
		token, err = srv.grantClientCredentials(ctx, client, req.Scopes)
	case entity.GrantRefreshToken:
		token, err = srv.grantRefreshToken(ctx, client, req.RefreshToken, req.Scopes)
	default:
		return nil, domainerrors.ErrOAuthUnsupportedGrantType
	}
	if err != nil {
		return nil, err
	}

	srv.recorder.RecordTokenIssued(req.GrantType)
	srv.log(ctx).Info("OAuth token issued",
		slog.String("grant", req.GrantType.String()),
		slog.String("clientID", client.ClientID),
		slog.String("userID", token.User.ID),
	)

	return token, nil
}

func (srv *oauthService) grantClientCredentials(ctx context.Context, client *entity.OAuthClient, requested []string) (*entity.Token, error) {
	if !scopesSubset(requested, client.Scopes) {
		return nil, domainerrors.ErrOAuthInvalidScope
	}
	scopes := requested
	if len(scopes) == 0 {
		scopes = client.Scopes
	}

	return srv.issue(ctx, client, nil, client.OwnerUserID, scopes)
}

// grantRefreshToken rotates: the presented refresh token is consumed before a new pair is issued.
func (srv *oauthService) grantRefreshToken(ctx context.Context, client *entity.OAuthClient, refreshToken string, requested []string) (*entity.Token, error) {
	if refreshToken == "" {
		return nil, domainerrors.ErrOAuthInvalidGrant
	}

	current, err := srv.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if current == nil || current.ClientID != client.ClientID {
		return nil, domainerrors.ErrOAuthInvalidGrant
	}
	if !scopesSubset(requested, current.Scopes) {
		return nil, domainerrors.ErrOAuthInvalidScope
	}
	scopes := requested
	if len(scopes) == 0 {
		scopes = current.Scopes
	}

	user, err := srv.userRepo.FindByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrOAuthInvalidGrant
		}

		return nil, errors.Wrap(err, "failed to load token user")
	}

	deleted, err := srv.RevokeToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !deleted {
		// Consumed concurrently by another request.
		return nil, domainerrors.ErrOAuthInvalidGrant
	}

	return srv.issue(ctx, client, user, user.ID, scopes)
}

func (srv *oauthService) issue(ctx context.Context, client *entity.OAuthClient, user *entity.User, subjectID string, scopes []string) (*entity.Token, error) {
	now := srv.now()

	accessToken, err := srv.tokenService.Sign(service.TokenPayload{
		SubjectID: subjectID,
		ClientID:  client.ClientID,
		Scopes:    scopes,
	}, 0)
	if err != nil {
		return nil, domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
	}

	token := &entity.Token{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: now.Add(srv.tokenService.AccessTokenDuration()),
		Scopes:               scopes,
	}

	if client.AllowsGrant(entity.GrantRefreshToken) {
		refreshToken, err := srv.secrets.Hex(refreshTokenLength)
		if err != nil {
			return nil, domainerrors.ErrTokenIssueFailed.WrapMessage(err.Error())
		}
		token.RefreshToken = refreshToken
		token.RefreshTokenExpiresAt = now.Add(srv.refreshTTL)
	}

	return srv.SaveToken(ctx, token, client, user)
}
