package repository

import (
	"github.com/taktakmenu/platform/internal/cache"
	"github.com/taktakmenu/platform/internal/domain/plan"
	"github.com/taktakmenu/platform/internal/domain/subscription"
	"github.com/taktakmenu/platform/internal/domain/tenant"
	"github.com/taktakmenu/platform/internal/domain/user"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/postgres"
	postgresRepo "github.com/taktakmenu/platform/internal/repository/postgres"
)

func NewPlanRepository(db *postgres.DB, logger *logger.Logger, cache cache.Cache) plan.Repository {
	return postgresRepo.NewPlanRepository(db, logger, cache)
}

func NewTenantRepository(db *postgres.DB, logger *logger.Logger) tenant.Repository {
	return postgresRepo.NewTenantRepository(db, logger)
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(db, logger)
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(db, logger)
}
