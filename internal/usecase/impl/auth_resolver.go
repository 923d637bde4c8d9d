package impl

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	deliverycontext "orienteer/internal/delivery/context"
	"orienteer/internal/domain/entity"
	domainerrors "orienteer/internal/domain/errors"
	"orienteer/internal/domain/service"
	"orienteer/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// resolveState is a state of the Authorization header state machine.
type resolveState int

const (
	stateNoHeader resolveState = iota
	stateBearerPending
	stateBasicPending
	stateResolved
)

// resolution is the value threaded through the state machine.
type resolution struct {
	state       resolveState
	scheme      entity.Scheme
	header      string
	credentials string
	eventID     string
	err         error
	result      entity.AuthContext
}

func resolved(r resolution, result entity.AuthContext) resolution {
	r.state = stateResolved
	r.result = result

	return r
}

func failed(r resolution, reason entity.FailureReason, err error) resolution {
	r.err = err

	return resolved(r, entity.Unauthenticated(reason))
}

// authResolver implements usecase.AuthResolver.
type authResolver struct {
	tokenService service.TokenService
	oauthModel   usecase.OAuthModel
	basic        usecase.BasicVerifier
	recorder     service.AuthRecorder
	logger       *slog.Logger
}

// AuthResolverParams holds dependencies for the resolver, injected by Fx.
type AuthResolverParams struct {
	fx.In

	TokenService service.TokenService
	OAuthModel   usecase.OAuthModel
	Basic        usecase.BasicVerifier
	Recorder     service.AuthRecorder `optional:"true"`
	Logger       *slog.Logger
}

// NewAuthResolver is the constructor for authResolver.
func NewAuthResolver(params AuthResolverParams) usecase.AuthResolver {
	recorder := params.Recorder
	if recorder == nil {
		recorder = service.NopAuthRecorder{}
	}

	return &authResolver{
		tokenService: params.TokenService,
		oauthModel:   params.OAuthModel,
		basic:        params.Basic,
		recorder:     recorder,
		logger:       params.Logger,
	}
}

func (r *authResolver) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, r.logger)
}

// Resolve runs the header through the state machine until it is resolved.
func (r *authResolver) Resolve(ctx context.Context, authorizationHeader string) entity.AuthContext {
	res := resolution{state: stateNoHeader, scheme: entity.SchemeNone, header: authorizationHeader}
	for res.state != stateResolved {
		switch res.state {
		case stateNoHeader:
			res = r.classify(res)
		case stateBearerPending:
			res = r.resolveBearer(ctx, res)
		case stateBasicPending:
			res = r.resolveBasic(ctx, res)
		default:
			res = failed(res, entity.ReasonUnsupportedScheme, errors.Errorf("unknown resolver state %d", res.state))
		}
	}

	r.observe(ctx, res)

	return res.result
}

// classify picks the credential scheme from the header.
func (r *authResolver) classify(res resolution) resolution {
	header := strings.TrimSpace(res.header)
	if header == "" {
		return failed(res, entity.ReasonMissingAuthorizationHeader, nil)
	}

	token, rest, _ := strings.Cut(header, " ")
	scheme, ok := entity.ParseScheme(token)
	if !ok {
		return failed(res, entity.ReasonUnsupportedScheme, nil)
	}

	res.scheme = scheme
	res.credentials = strings.TrimSpace(rest)
	switch scheme {
	case entity.SchemeBearer:
		res.state = stateBearerPending
	case entity.SchemeBasic:
		res.state = stateBasicPending
	default:
		return failed(res, entity.ReasonUnsupportedScheme, nil)
	}

	return res
}

// resolveBearer verifies the token and, for OAuth-issued tokens, its presence in the token store.
func (r *authResolver) resolveBearer(ctx context.Context, res resolution) resolution {
	if res.credentials == "" {
		return failed(res, entity.ReasonInvalidBearerToken, service.ErrNoToken)
	}

	payload, err := r.tokenService.Verify(res.credentials)
	if err != nil {
		return failed(res, entity.ReasonInvalidBearerToken, err)
	}

	if payload.IsOAuthIssued() {
		stored, err := r.oauthModel.GetAccessToken(ctx, res.credentials)
		if err != nil {
			return failed(res, entity.ReasonInvalidBearerToken, err)
		}
		if stored == nil || stored.ClientID != payload.ClientID {
			return failed(res, entity.ReasonOAuthAccessTokenNotFound, nil)
		}
	}

	return resolved(res, entity.BearerAuthenticated(payload.SubjectID, payload.ClientID, payload.Scopes))
}

// resolveBasic decodes eventId:password and runs the event password check.
func (r *authResolver) resolveBasic(ctx context.Context, res resolution) resolution {
	decoded, err := base64.StdEncoding.DecodeString(res.credentials)
	if err != nil {
		return failed(res, entity.ReasonBasicMalformedCredentials, err)
	}

	// Event ids never contain ':'; the password may.
	eventID, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return failed(res, entity.ReasonBasicMalformedCredentials, nil)
	}
	res.eventID = eventID
	if eventID == "" {
		return failed(res, entity.ReasonBasicMissingEventID, nil)
	}
	if password == "" {
		return failed(res, entity.ReasonBasicMissingPassword, nil)
	}

	ownerID, err := r.verifyBasic(ctx, eventID, password)
	if err != nil {
		var authErr *domainerrors.AuthError
		if errors.As(err, &authErr) {
			return failed(res, authErr.Reason, err)
		}

		return failed(res, entity.ReasonBasicUnexpectedError, err)
	}

	return resolved(res, entity.BasicAuthenticated(ownerID, eventID))
}

func (r *authResolver) verifyBasic(ctx context.Context, eventID, password string) (ownerID string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = domainerrors.NewAuthError(entity.ReasonBasicUnexpectedError, eventID, errors.Errorf("panic during basic verification: %v", rec))
		}
	}()

	return r.basic.Verify(ctx, eventID, password)
}

// observe logs and counts the outcome. Failure reasons stay server-side.
func (r *authResolver) observe(ctx context.Context, res resolution) {
	r.recorder.RecordResolution(res.scheme, res.result.FailureReason)

	if res.result.IsAuthenticated {
		r.log(ctx).Debug("Request authenticated",
			slog.String("scheme", res.result.Scheme.String()),
			slog.String("subjectID", res.result.SubjectID),
		)

		return
	}

	attrs := []any{
		slog.String("scheme", res.scheme.String()),
		slog.String("reason", res.result.FailureReason.String()),
	}
	if res.eventID != "" {
		attrs = append(attrs, slog.String("eventID", res.eventID))
	}

	switch res.result.FailureReason {
	case entity.ReasonMissingAuthorizationHeader:
		r.log(ctx).Debug("No credentials presented", attrs...)
	case entity.ReasonBasicUnexpectedError:
		attrs = append(attrs, slog.String("error", errorWithStack(res.err)))
		r.log(ctx).Error("Unexpected error during authentication", attrs...)
	default:
		if res.err != nil {
			attrs = append(attrs, slog.Any("error", res.err))
		}
		r.log(ctx).Warn("Authentication failed", attrs...)
	}
}

func errorWithStack(err error) string {
	if err == nil {
		return ""
	}

	return fmt.Sprintf("%+v", err)
}
