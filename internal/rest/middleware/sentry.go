package middleware

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/taktakmenu/platform/internal/config"
	"github.com/taktakmenu/platform/internal/types"
)

func noop(c *gin.Context) {
	c.Next()
}

// SentryMiddleware attaches a sentry hub to every request and reports panics.
// It is a no-op when sentry is disabled.
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return noop
	}

	return sentrygin.New(sentrygin.Options{
		Repanic: true,
		Timeout: 2 * time.Second,
	})
}

// SentryScopeMiddleware tags the request's hub with the request ID and the
// addressed subdomain. It must run after SubdomainMiddleware.
func SentryScopeMiddleware(c *gin.Context) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		ctx := c.Request.Context()
		hub.Scope().SetTag("request_id", types.GetRequestID(ctx))
		if subdomain := types.GetSubdomain(ctx); subdomain != "" {
			hub.Scope().SetTag("subdomain", subdomain)
		}
	}
	c.Next()
}
