package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/taktakmenu/platform/internal/domain/subscription"
	"github.com/taktakmenu/platform/internal/domain/tenant"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/service"
	"github.com/taktakmenu/platform/internal/types"
)

const (
	ctxKeyResolvedTenant       = "resolved_tenant"
	ctxKeyResolvedSubscription = "resolved_subscription"
)

// SubscriptionGuard admits requests whose tenant holds an active, unexpired
// subscription. The resolved tenant is kept on the gin context. Routes that
// act on the caller's own tenant must follow it with RequireOwnTenant.
func SubscriptionGuard(access service.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, sub, err := access.CheckAccess(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ctxKeyResolvedTenant, t)
		c.Set(ctxKeyResolvedSubscription, sub)
		c.Next()
	}
}

// RequireOwnTenant rejects requests where the tenant admitted by
// SubscriptionGuard is not the caller's own tenant. It must run after the guard.
func RequireOwnTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerTenantID := types.GetTenantID(c.Request.Context())
		t, ok := ResolvedTenant(c)
		if !ok || callerTenantID == "" || t.ID != callerTenantID {
			b := ierr.NewError("addressed tenant is not the caller's tenant").
				WithHint("You do not have access to this tenant")
			if ok {
				b = b.WithTenant(t.ID)
			}
			_ = c.Error(b.Mark(ierr.ErrPermissionDenied))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ResolvedTenant returns the tenant admitted by SubscriptionGuard
func ResolvedTenant(c *gin.Context) (*tenant.Tenant, bool) {
	v, ok := c.Get(ctxKeyResolvedTenant)
	if !ok {
		return nil, false
	}
	t, ok := v.(*tenant.Tenant)
	return t, ok
}

// ResolvedSubscription returns the subscription that admitted the request
func ResolvedSubscription(c *gin.Context) (*subscription.Subscription, bool) {
	v, ok := c.Get(ctxKeyResolvedSubscription)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*subscription.Subscription)
	return sub, ok
}
