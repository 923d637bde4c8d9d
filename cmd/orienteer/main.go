package main

import (
	"context"
	"log/slog"
	"os"

	"orienteer/config"
	"orienteer/internal/delivery"
	"orienteer/internal/delivery/api"
	"orienteer/internal/delivery/api/middleware"
	"orienteer/internal/delivery/api/router/handler"
	"orienteer/internal/domain/repository"
	"orienteer/internal/infra/auth"
	"orienteer/internal/infra/crypto"
	logs "orienteer/internal/infra/log"
	"orienteer/internal/infra/metrics"
	"orienteer/internal/infra/persistence/postgres"
	"orienteer/internal/infra/persistence/redis"
	"orienteer/internal/usecase/impl"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		metrics.NewRegistry,
		postgres.New,
		fx.Annotate(
			newPostgresHealthCheck,
			fx.ResultTags(`group:"health_checks"`),
		),
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewEventRepository,
			postgres.NewEventOwnershipRepository,
			postgres.NewOAuthClientRepository,
			postgres.NewTransactionManager,
			newOAuthTokenStore,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			crypto.NewCipher,
			crypto.NewSecretGenerator,
			metrics.NewAuthMetrics,
			metrics.NewAuthRecorder,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewBasicVerifier,
			impl.NewAuthResolver,
			impl.NewOAuthService,
			impl.NewOwnershipGuard,
			impl.NewEventPasswordService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewSystemHandler,
			handler.NewOAuthHandler,
			handler.NewEventHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func newPostgresHealthCheck(db *gorm.DB) handler.HealthCheck {
	return handler.HealthCheck{Name: "postgres", Check: postgres.Ping(db)}
}

type tokenStoreParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
}

type tokenStoreResult struct {
	fx.Out

	Tokens repository.OAuthTokenRepository
	Checks []handler.HealthCheck `group:"health_checks,flatten"`
}

// newOAuthTokenStore selects where issued OAuth tokens live. Redis is only
// dialed when it is the configured store.
func newOAuthTokenStore(params tokenStoreParams) (tokenStoreResult, error) {
	if params.Config.OAuth == nil || params.Config.OAuth.TokenStore != config.TokenStoreRedis {
		return tokenStoreResult{Tokens: postgres.NewOAuthTokenRepository(params.DB)}, nil
	}

	client, err := redis.New(redis.Params{
		Lifecycle: params.Lifecycle,
		Config:    params.Config,
		Logger:    params.Logger,
	})
	if err != nil {
		return tokenStoreResult{}, err
	}
	params.Logger.Info("OAuth tokens stored in Redis")

	return tokenStoreResult{
		Tokens: redis.NewOAuthTokenRepository(client, params.Config),
		Checks: []handler.HealthCheck{{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
		}},
	}, nil
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
