// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"orienteer/config"
	"orienteer/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	tokenTypeAccess     = "access"
	tokenTypeActivation = "activation"
)

// claims is the wire form of a bearer or activation token.
type claims struct {
	ClientID string   `json:"cid,omitempty"`
	Scopes   []string `json:"scope,omitempty"`
	Type     string   `json:"typ"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret        []byte        // Secret key for signing every token type.
	issuer        string        // Issuer claim, the configured service name.
	accessTTL     time.Duration // Default time-to-live for bearer tokens.
	activationTTL time.Duration // Time-to-live for activation/reset tokens.
	now           func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Token == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	accessTTL := config.DefaultAccessTokenTTL
	activationTTL := config.DefaultActivationTokenTTL
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.ActivationTokenTTL > 0 {
			activationTTL = cfg.Auth.ActivationTokenTTL
		}
	}

	return &jwtService{
		secret:        []byte(cfg.SecretKey.Token),
		issuer:        cfg.Env.ServiceName,
		accessTTL:     accessTTL,
		activationTTL: activationTTL,
		now:           time.Now,
	}, nil
}

// Sign creates a bearer token for the given payload.
func (s *jwtService) Sign(payload service.TokenPayload, ttl time.Duration) (string, error) {
	if payload.SubjectID == "" {
		return "", errors.New("token subject must be provided")
	}
	if ttl <= 0 {
		ttl = s.accessTTL
	}

	return s.sign(claims{
		ClientID: payload.ClientID,
		Scopes:   payload.Scopes,
		Type:     tokenTypeAccess,
	}, payload.SubjectID, ttl)
}

// Verify checks signature, expiry and type of a bearer token.
func (s *jwtService) Verify(token string) (*service.TokenPayload, error) {
	c, err := s.parse(token, tokenTypeAccess)
	if err != nil {
		return nil, err
	}

	return &service.TokenPayload{
		SubjectID: c.Subject,
		ClientID:  c.ClientID,
		Scopes:    c.Scopes,
	}, nil
}

// SignActivation creates a long-lived activation/reset token carrying only a subject id.
func (s *jwtService) SignActivation(subjectID string) (string, error) {
	if subjectID == "" {
		return "", errors.New("token subject must be provided")
	}

	return s.sign(claims{Type: tokenTypeActivation}, subjectID, s.activationTTL)
}

// VerifyActivation returns the subject id of a valid activation/reset token.
func (s *jwtService) VerifyActivation(token string) (string, error) {
	c, err := s.parse(token, tokenTypeActivation)
	if err != nil {
		return "", err
	}

	return c.Subject, nil
}

// AccessTokenDuration returns the configured duration for access tokens.
func (s *jwtService) AccessTokenDuration() time.Duration {
	return s.accessTTL
}

func (s *jwtService) sign(c claims, subject string, ttl time.Duration) (string, error) {
	now := s.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

func (s *jwtService) parse(token, wantType string) (*claims, error) {
	if token == "" {
		return nil, errors.WithStack(service.ErrNoToken)
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, errors.Wrapf(service.ErrInvalidToken, "parse: %v", err)
	}

	if c.Type != wantType {
		return nil, errors.Wrapf(service.ErrInvalidToken, "unexpected token type %q", c.Type)
	}
	if c.Subject == "" {
		return nil, errors.Wrap(service.ErrInvalidToken, "missing subject")
	}

	return &c, nil
}
