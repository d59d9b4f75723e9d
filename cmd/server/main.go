package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/waterdropvpn/starcore/internal/api"
	v1 "github.com/waterdropvpn/starcore/internal/api/v1"
	"github.com/waterdropvpn/starcore/internal/cache"
	"github.com/waterdropvpn/starcore/internal/config"
	"github.com/waterdropvpn/starcore/internal/logger"
	"github.com/waterdropvpn/starcore/internal/postgres"
	"github.com/waterdropvpn/starcore/internal/repository"
	"github.com/waterdropvpn/starcore/internal/service"
	"github.com/waterdropvpn/starcore/internal/types"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,
			providePostgresClient,

			// Repositories
			repository.NewUserRepository,
			repository.NewPlanRepository,
			repository.NewSubscriptionRepository,
			repository.NewPaymentRepository,
			repository.NewLedgerRepository,
			repository.NewCredentialRepository,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewLedgerService,
			service.NewUserService,
			service.NewPaymentService,
			service.NewSubscriptionService,
			service.NewCredentialService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func providePostgresClient(db *postgres.DB) postgres.IClient {
	return db
}

func provideHandlers(
	logger *logger.Logger,
	userService service.UserService,
	ledgerService service.LedgerService,
	paymentService service.PaymentService,
	subscriptionService service.SubscriptionService,
	credentialService service.CredentialService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(),
		User:         v1.NewUserHandler(userService, ledgerService, logger),
		Payment:      v1.NewPaymentHandler(paymentService, logger),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, logger),
		Credential:   v1.NewCredentialHandler(credentialService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			db.Close()
			return nil
		},
	})
}
