package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taktakmenu/platform/internal/api"
	v1 "github.com/taktakmenu/platform/internal/api/v1"
	"github.com/taktakmenu/platform/internal/auth"
	"github.com/taktakmenu/platform/internal/cache"
	"github.com/taktakmenu/platform/internal/config"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/postgres"
	"github.com/taktakmenu/platform/internal/rbac"
	"github.com/taktakmenu/platform/internal/repository"
	"github.com/taktakmenu/platform/internal/rest/middleware"
	"github.com/taktakmenu/platform/internal/sentry"
	"github.com/taktakmenu/platform/internal/service"
	"github.com/taktakmenu/platform/internal/types"
	"github.com/taktakmenu/platform/internal/validator"
	"go.uber.org/fx"
)

// @title TakTakMenu Platform API
// @version 1.0
// @description Tenant provisioning, plans and subscriptions for TakTakMenu
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,

			// Auth
			auth.NewHasher,
			auth.NewTokenProvider,

			// Repositories
			repository.NewPlanRepository,
			repository.NewTenantRepository,
			repository.NewSubscriptionRepository,
			repository.NewUserRepository,

			// Access control
			rbac.NewRBACService,
			middleware.NewPermissionMiddleware,
			middleware.NewRateLimiter,
		),
	)

	// Monitoring
	opts = append(opts, sentry.Module())

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewPlanService,
			service.NewSubscriptionService,
			service.NewUserService,
			service.NewTenantService,
			service.NewAuthService,
			service.NewAccessService,
		),
	)

	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			migrateDatabase,
			seedSystemAdmin,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	authService service.AuthService,
	planService service.PlanService,
	tenantService service.TenantService,
	subscriptionService service.SubscriptionService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(logger),
		Auth:         v1.NewAuthHandler(authService),
		Plan:         v1.NewPlanHandler(planService, logger),
		Tenant:       v1.NewTenantHandler(tenantService, logger),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, logger),
	}
}

func provideRouter(
	handlers api.Handlers,
	cfg *config.Configuration,
	logger *logger.Logger,
	sentrySvc *sentry.Service,
	tokens auth.TokenProvider,
	accessService service.AccessService,
	limiter *middleware.RateLimiter,
	permissions *middleware.PermissionMiddleware,
) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers, api.RouterParams{
		Config:        cfg,
		Logger:        logger,
		Sentry:        sentrySvc,
		TokenProvider: tokens,
		AccessService: accessService,
		RateLimiter:   limiter,
		Permissions:   permissions,
	})
}

func migrateDatabase(lc fx.Lifecycle, cfg *config.Configuration, db *postgres.DB, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.Postgres.AutoMigrate {
				return nil
			}
			log.Info("Applying database migrations...")
			return postgres.Migrate(ctx, db, log)
		},
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}

func seedSystemAdmin(lc fx.Lifecycle, userService service.UserService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return userService.EnsureSystemAdmin(ctx)
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	limiter *middleware.RateLimiter,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI, types.ModeProduction:
		if cfg.RateLimit.Enabled {
			startRateLimitSweeper(lc, limiter)
		}
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startRateLimitSweeper(lc fx.Lifecycle, limiter *middleware.RateLimiter) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go limiter.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
