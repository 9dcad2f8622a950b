package service

import (
	"github.com/taktakmenu/platform/internal/testutil"
)

func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:        s.GetLogger(),
		Config:        s.GetConfig(),
		DB:            s.GetDB(),
		TenantRepo:    stores.TenantRepo,
		UserRepo:      stores.UserRepo,
		PlanRepo:      stores.PlanRepo,
		SubRepo:       stores.SubscriptionRepo,
		Hasher:        s.GetHasher(),
		TokenProvider: s.GetTokenProvider(),
	}
}
