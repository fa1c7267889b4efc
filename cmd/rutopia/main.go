package main

import (
	"context"
	"log/slog"

	"rutopia/config"
	"rutopia/internal/delivery"
	"rutopia/internal/delivery/api"
	"rutopia/internal/delivery/api/middleware"
	"rutopia/internal/delivery/api/router/handler"
	"rutopia/internal/delivery/scheduler"
	"rutopia/internal/domain/constants"
	"rutopia/internal/domain/repository"
	"rutopia/internal/domain/service"
	"rutopia/internal/infra/auth"
	logs "rutopia/internal/infra/log"
	"rutopia/internal/infra/persistence/memory"
	"rutopia/internal/infra/persistence/postgres"
	"rutopia/internal/infra/pubsub"
	"rutopia/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
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
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newAlertRepository,
		),
	)
}

type alertRepositoryParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// newAlertRepository opens the configured alert store. The memory store keeps
// nothing across restarts and is meant for local runs and demos.
func newAlertRepository(params alertRepositoryParams) (repository.AlertRepository, error) {
	switch params.Config.Storage.Driver {
	case constants.StorageDriverMemory:
		params.Logger.Warn("Using in-memory alert store, alerts are lost on restart")

		return memory.NewAlertRepository(), nil

	case constants.StorageDriverPostgres:
		spatial, err := postgres.NewSpatialIndex(params.Config)
		if err != nil {
			return nil, err
		}

		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
			Spatial:   spatial,
		})
		if err != nil {
			return nil, err
		}

		return postgres.NewAlertRepository(db, spatial), nil

	default:
		return nil, errors.Errorf("unknown storage driver: %s", params.Config.Storage.Driver)
	}
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			pubsub.NewEventPublisher,
			newIdentityVerifier,
		),
	)
}

// newIdentityVerifier creates the Firebase ID token verifier. Without Firebase
// configuration callers are identified by the User-Id header instead.
func newIdentityVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.IdentityVerifier, error) {
	if cfg.Firebase == nil {
		logger.Warn("Firebase not configured, trusting the User-Id header for caller identity")

		return nil, nil
	}

	verifier, err := auth.NewFirebaseVerifier(ctx, cfg.Firebase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Firebase verifier")
	}

	return verifier, nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewExpirySweeper,
			impl.NewAlertLifecycleService,
			impl.NewAlertQueryService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewIdentityMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAlertHandler,
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
			fx.Annotate(
				scheduler.NewSweepScheduler,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, d := range params.Deliveries {
				go func() {
					if err := d.Serve(ctx); err != nil {
						params.Logger.Error("Delivery stopped with error", slog.Any("error", err))
						if shutdownErr := params.Shutdowner.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
							params.Logger.Error("Failed to request shutdown", slog.Any("error", shutdownErr))
						}
					}
				}()
			}

			return nil
		},
	})
}
