package testutil

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/taktakmenu/platform/internal/auth"
	"github.com/taktakmenu/platform/internal/config"
	"github.com/taktakmenu/platform/internal/domain/plan"
	"github.com/taktakmenu/platform/internal/domain/subscription"
	"github.com/taktakmenu/platform/internal/domain/tenant"
	"github.com/taktakmenu/platform/internal/domain/user"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/types"
	"github.com/taktakmenu/platform/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	PlanRepo         plan.Repository
	TenantRepo       tenant.Repository
	SubscriptionRepo subscription.Repository
	UserRepo         user.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     *MockPostgresClient
	logger *logger.Logger
	config *config.Configuration
	hasher auth.Hasher
	tokens auth.TokenProvider
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.logger = logger.NewNopLogger()
	s.hasher = auth.NewHasherWithCost(bcrypt.MinCost)
	s.tokens = auth.NewTokenProvider(s.config)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		PlanRepo:         NewInMemoryPlanStore(),
		TenantRepo:       NewInMemoryTenantStore(),
		SubscriptionRepo: NewInMemorySubscriptionStore(),
		UserRepo:         NewInMemoryUserStore(),
	}
	s.db = NewMockPostgresClient(s.logger)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.PlanRepo.(*InMemoryPlanStore).Clear()
	s.stores.TenantRepo.(*InMemoryTenantStore).Clear()
	s.stores.SubscriptionRepo.(*InMemorySubscriptionStore).Clear()
	s.stores.UserRepo.(*InMemoryUserStore).Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetHasher() auth.Hasher {
	return s.hasher
}

func (s *BaseServiceTestSuite) GetTokenProvider() auth.TokenProvider {
	return s.tokens
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// CreatePlan stores a plan with the given monthly price and returns it
func (s *BaseServiceTestSuite) CreatePlan(name string, price string, unit types.BillingPeriodUnit, value int) *plan.Plan {
	p := &plan.Plan{
		ID:                 types.GenerateUUIDWithPrefix(types.IDPrefixPlan),
		Name:               name,
		Price:              decimal.RequireFromString(price),
		Currency:           types.DefaultCurrency,
		BillingPeriodUnit:  unit,
		BillingPeriodValue: value,
		Features:           []string{"menu"},
		CreatedAt:          s.now,
		UpdatedAt:          s.now,
	}
	s.Require().NoError(s.stores.PlanRepo.Create(s.ctx, p))
	return p
}

// CreateTenant stores a tenant under subdomain and returns it
func (s *BaseServiceTestSuite) CreateTenant(subdomain string) *tenant.Tenant {
	t := &tenant.Tenant{
		ID:                types.GenerateUUIDWithPrefix(types.IDPrefixTenant),
		Name:              subdomain,
		Subdomain:         subdomain,
		Email:             subdomain + "@example.com",
		ShowInfoToClients: true,
		CreatedAt:         s.now,
		UpdatedAt:         s.now,
	}
	s.Require().NoError(s.stores.TenantRepo.Create(s.ctx, t))
	return t
}
