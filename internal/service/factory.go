package service

import (
	"github.com/taktakmenu/platform/internal/auth"
	"github.com/taktakmenu/platform/internal/config"
	"github.com/taktakmenu/platform/internal/domain/plan"
	"github.com/taktakmenu/platform/internal/domain/subscription"
	"github.com/taktakmenu/platform/internal/domain/tenant"
	"github.com/taktakmenu/platform/internal/domain/user"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	TenantRepo tenant.Repository
	UserRepo   user.Repository
	PlanRepo   plan.Repository
	SubRepo    subscription.Repository

	// Identity
	Hasher        auth.Hasher
	TokenProvider auth.TokenProvider
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db *postgres.DB,
	tenantRepo tenant.Repository,
	userRepo user.Repository,
	planRepo plan.Repository,
	subRepo subscription.Repository,
	hasher auth.Hasher,
	tokenProvider auth.TokenProvider,
) ServiceParams {
	return ServiceParams{
		Logger:        logger,
		Config:        config,
		DB:            db,
		TenantRepo:    tenantRepo,
		UserRepo:      userRepo,
		PlanRepo:      planRepo,
		SubRepo:       subRepo,
		Hasher:        hasher,
		TokenProvider: tokenProvider,
	}
}
