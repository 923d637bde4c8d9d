package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"orienteer/internal/delivery/api/response"
	deliverycontext "orienteer/internal/delivery/context"
	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OAuthHandlerParams holds dependencies for OAuthHandler, injected by Fx.
type OAuthHandlerParams struct {
	fx.In

	OAuth  usecase.OAuthModel
	Logger *slog.Logger
}

// OAuthHandler serves client registration and the token endpoints.
type OAuthHandler struct {
	oauth  usecase.OAuthModel
	logger *slog.Logger
	now    func() time.Time
}

// NewOAuthHandler is the constructor for OAuthHandler
func NewOAuthHandler(params OAuthHandlerParams) *OAuthHandler {
	return &OAuthHandler{
		oauth:  params.OAuth,
		logger: params.Logger,
		now:    time.Now,
	}
}

// RegisterClientRequest represents the request body for registering a client
type RegisterClientRequest struct {
	Grants       []string `json:"grants" validate:"omitempty,dive,grant_type"`
	RedirectURIs []string `json:"redirect_uris" validate:"omitempty,dive,url"`
	Scopes       []string `json:"scopes" validate:"omitempty,dive,required"`
}

// TokenRequest is the token endpoint input, accepted as form or JSON.
type TokenRequest struct {
	GrantType    string `form:"grant_type" json:"grant_type" validate:"required"`
	ClientID     string `form:"client_id" json:"client_id"`
	ClientSecret string `form:"client_secret" json:"client_secret"`
	RefreshToken string `form:"refresh_token" json:"refresh_token" validate:"required_if=GrantType refresh_token"`
	Scope        string `form:"scope" json:"scope"`
}

// RevokeRequest is the revocation endpoint input.
type RevokeRequest struct {
	Token        string `form:"token" json:"token" validate:"required"`
	ClientID     string `form:"client_id" json:"client_id"`
	ClientSecret string `form:"client_secret" json:"client_secret"`
}

// TokenResponse is the RFC 6749 section 5.1 token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// RegisterClient registers a client owned by the authenticated user.
func (h *OAuthHandler) RegisterClient(c echo.Context) error {
	var req RegisterClientRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid client registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	authCtx := deliverycontext.GetEchoAuthContext(c)
	registered, err := h.oauth.SaveClient(c.Request().Context(), &usecase.RegisterClientInput{
		OwnerID:      authCtx.SubjectID,
		Grants:       req.Grants,
		RedirectURIs: req.RedirectURIs,
		Scopes:       req.Scopes,
	})
	if err != nil {
		return err
	}

	noStore(c)

	return response.Success(c, http.StatusCreated, registered)
}

// Token runs the client_credentials and refresh_token grants. Client
// credentials may come from the body or from HTTP Basic.
func (h *OAuthHandler) Token(c echo.Context) error {
	var req TokenRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid token request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	grant := entity.GrantType(req.GrantType)
	if !grant.IsValid() {
		return domainerrors.ErrOAuthUnsupportedGrantType
	}

	clientID, clientSecret := clientCredentials(c, req.ClientID, req.ClientSecret)
	token, err := h.oauth.Grant(c.Request().Context(), &usecase.GrantRequest{
		GrantType:    grant,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RefreshToken: req.RefreshToken,
		Scopes:       strings.Fields(req.Scope),
	})
	if err != nil {
		return err
	}

	noStore(c)

	return c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  token.AccessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(token.AccessTokenExpiresAt.Sub(h.now()).Seconds()),
		RefreshToken: token.RefreshToken,
		Scope:        strings.Join(token.Scopes, " "),
	})
}

// Revoke deletes a refresh token held by the authenticated client. Unknown
// tokens and tokens of other clients are answered the same way as success.
func (h *OAuthHandler) Revoke(c echo.Context) error {
	var req RevokeRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid revocation request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	clientID, clientSecret := clientCredentials(c, req.ClientID, req.ClientSecret)
	if clientID == "" || clientSecret == "" {
		return domainerrors.ErrOAuthInvalidClient
	}

	client, err := h.oauth.GetClient(ctx, clientID, clientSecret)
	if err != nil {
		return err
	}
	if client == nil {
		return domainerrors.ErrOAuthInvalidClient
	}

	stored, err := h.oauth.GetRefreshToken(ctx, req.Token)
	if err != nil {
		return err
	}
	if stored == nil || stored.ClientID != client.ClientID {
		return c.NoContent(http.StatusOK)
	}

	deleted, err := h.oauth.RevokeToken(ctx, req.Token)
	if err != nil {
		return err
	}
	h.logger.Info("Refresh token revoked",
		slog.String("client_id", client.ClientID),
		slog.Bool("deleted", deleted),
	)

	return c.NoContent(http.StatusOK)
}

// clientCredentials prefers HTTP Basic client authentication over body fields.
func clientCredentials(c echo.Context, bodyID, bodySecret string) (string, string) {
	if id, secret, ok := c.Request().BasicAuth(); ok {
		return id, secret
	}

	return bodyID, bodySecret
}

func noStore(c echo.Context) {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	c.Response().Header().Set("Pragma", "no-cache")
}
