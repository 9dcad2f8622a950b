package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/taktakmenu/platform/internal/config"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/types"
	"go.uber.org/fx"
)

type Service struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

// Module provides fx options for Sentry
func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewSentryService),
		fx.Invoke(RegisterHooks),
	)
}

// RegisterHooks initialises the client on start and flushes it on stop
func RegisterHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !svc.cfg.Sentry.Enabled {
				svc.logger.Info("Sentry is disabled")
				return nil
			}

			err := sentry.Init(sentry.ClientOptions{
				Dsn:              svc.cfg.Sentry.DSN,
				Environment:      svc.cfg.Sentry.Environment,
				EnableTracing:    true,
				TracesSampleRate: svc.cfg.Sentry.SampleRate,
				TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
					if ctx.Span.Name == "GET /health" {
						return 0.0
					}
					return svc.cfg.Sentry.SampleRate
				}),
			})
			if err != nil {
				svc.logger.Errorw("failed to initialize sentry", "error", err)
				return err
			}
			svc.logger.Infow("sentry initialized",
				"environment", svc.cfg.Sentry.Environment,
				"sample_rate", svc.cfg.Sentry.SampleRate,
			)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			svc.Flush(2)
			return nil
		},
	})
}

// NewSentryService creates a new Sentry service
func NewSentryService(cfg *config.Configuration, logger *logger.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger,
	}
}

// CaptureException reports err tagged with the request and tenant of ctx
func (s *Service) CaptureException(ctx context.Context, err error) {
	if s == nil || !s.cfg.Sentry.Enabled {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if requestID := types.GetRequestID(ctx); requestID != "" {
			scope.SetTag("request_id", requestID)
		}
		if tenantID := types.GetTenantID(ctx); tenantID != "" {
			scope.SetTag("tenant_id", tenantID)
		}
		if userID := types.GetUserID(ctx); userID != "" {
			scope.SetUser(sentry.User{ID: userID})
		}
		hub.CaptureException(err)
	})
}

// Flush waits for queued events to be sent
func (s *Service) Flush(timeout uint) bool {
	if s == nil || !s.cfg.Sentry.Enabled {
		return true
	}
	return sentry.Flush(time.Duration(timeout) * time.Second)
}
