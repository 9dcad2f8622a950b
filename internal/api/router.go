package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/taktakmenu/platform/internal/api/v1"
	"github.com/taktakmenu/platform/internal/auth"
	"github.com/taktakmenu/platform/internal/config"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/rbac"
	"github.com/taktakmenu/platform/internal/rest/middleware"
	"github.com/taktakmenu/platform/internal/sentry"
	"github.com/taktakmenu/platform/internal/service"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Auth         *v1.AuthHandler
	Plan         *v1.PlanHandler
	Tenant       *v1.TenantHandler
	Subscription *v1.SubscriptionHandler
}

// RouterParams are the dependencies the middleware chain needs
type RouterParams struct {
	Config        *config.Configuration
	Logger        *logger.Logger
	Sentry        *sentry.Service
	TokenProvider auth.TokenProvider
	AccessService service.AccessService
	RateLimiter   *middleware.RateLimiter
	Permissions   *middleware.PermissionMiddleware
}

func NewRouter(handlers Handlers, params RouterParams) *gin.Engine {
	router := gin.Default()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(params.Config),
		middleware.ErrorHandler(params.Logger, params.Sentry),
	)
	if params.Config.RateLimit.Enabled {
		router.Use(params.RateLimiter.Middleware())
	}
	router.Use(middleware.SubdomainMiddleware, middleware.SentryScopeMiddleware)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers, params)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, params RouterParams) {
	authenticated := middleware.AuthenticateMiddleware(params.TokenProvider, params.Logger)
	guard := middleware.SubscriptionGuard(params.AccessService)
	can := params.Permissions.RequirePermission

	public := router.Group("")
	private := router.Group("", authenticated)

	public.GET("/health", handlers.Health.Health)

	// Auth routes
	public.POST("/auth/login", handlers.Auth.Login)

	// Plan routes
	public.GET("/plans/public", handlers.Plan.ListPublicPlans)
	plans := private.Group("/plans")
	{
		plans.GET("", can(rbac.EntityPlan, rbac.ActionRead), handlers.Plan.ListPlans)
		plans.GET("/statistics", can(rbac.EntityPlan, rbac.ActionRead), handlers.Plan.GetStatistics)
		plans.GET("/:id", can(rbac.EntityPlan, rbac.ActionRead), handlers.Plan.GetPlan)
		plans.POST("", can(rbac.EntityPlan, rbac.ActionWrite), handlers.Plan.CreatePlan)
		plans.PUT("/:id", can(rbac.EntityPlan, rbac.ActionWrite), handlers.Plan.UpdatePlan)
		plans.DELETE("/:id", can(rbac.EntityPlan, rbac.ActionWrite), handlers.Plan.DeletePlan)
		plans.POST("/:id/archive", can(rbac.EntityPlan, rbac.ActionWrite), handlers.Plan.ToggleArchive)
	}

	// Tenant routes
	public.GET("/tenants/public/profile",
		middleware.OptionalAuthenticateMiddleware(params.TokenProvider),
		guard,
		handlers.Tenant.GetPublicProfile,
	)
	tenants := private.Group("/tenants")
	{
		tenants.PUT("/profile",
			can(rbac.EntityTenantProfile, rbac.ActionWrite),
			guard,
			middleware.RequireOwnTenant(),
			handlers.Tenant.UpdateTenantProfile,
		)
		tenants.POST("", can(rbac.EntityTenant, rbac.ActionWrite), handlers.Tenant.CreateTenant)
		tenants.GET("", can(rbac.EntityTenant, rbac.ActionRead), handlers.Tenant.ListTenants)
		tenants.GET("/:id", can(rbac.EntityTenant, rbac.ActionRead), handlers.Tenant.GetTenantByID)
		tenants.GET("/subdomain/:subdomain", can(rbac.EntityTenant, rbac.ActionRead), handlers.Tenant.GetTenantBySubdomain)
		tenants.PUT("/:id", can(rbac.EntityTenant, rbac.ActionWrite), handlers.Tenant.UpdateTenant)
		tenants.DELETE("/:id", can(rbac.EntityTenant, rbac.ActionWrite), handlers.Tenant.DeleteTenant)
	}

	// Subscription routes
	subscriptions := private.Group("/subscriptions")
	{
		subscriptions.POST("/change", can(rbac.EntitySubscription, rbac.ActionWrite), handlers.Subscription.ChangeSubscription)
		subscriptions.PATCH("/:id", can(rbac.EntitySubscription, rbac.ActionWrite), handlers.Subscription.UpdateSubscription)
		subscriptions.PATCH("/:id/disable", can(rbac.EntitySubscription, rbac.ActionWrite), handlers.Subscription.DisableSubscription)
		subscriptions.GET("/tenant/:tenant_id", can(rbac.EntitySubscription, rbac.ActionRead), handlers.Subscription.ListByTenant)
		subscriptions.GET("/tenant/:tenant_id/active", can(rbac.EntitySubscription, rbac.ActionRead), handlers.Subscription.GetActive)
	}
}
