package service

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/taktakmenu/platform/internal/api/dto"
	"github.com/taktakmenu/platform/internal/domain/plan"
	"github.com/taktakmenu/platform/internal/domain/subscription"
	"github.com/taktakmenu/platform/internal/domain/tenant"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/testutil"
	"github.com/taktakmenu/platform/internal/types"
)

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  SubscriptionService
	subStore *testutil.InMemorySubscriptionStore

	tenant  *tenant.Tenant
	monthly *plan.Plan
	yearly  *plan.Plan
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSubscriptionService(newTestServiceParams(&s.BaseServiceTestSuite))
	s.subStore = s.GetStores().SubscriptionRepo.(*testutil.InMemorySubscriptionStore)

	s.tenant = s.CreateTenant("tacos")
	s.monthly = s.CreatePlan("Monthly", "10.00", types.BillingPeriodUnitMonth, 1)
	s.yearly = s.CreatePlan("Yearly", "100.00", types.BillingPeriodUnitYear, 1)
}

func (s *SubscriptionServiceSuite) activeFor(tenantID string) []*subscription.Subscription {
	return lo.Filter(s.subStore.All(), func(sub *subscription.Subscription, _ int) bool {
		return sub.TenantID == tenantID && sub.IsActive()
	})
}

func (s *SubscriptionServiceSuite) TestCreateSubscription() {
	before := time.Now().UTC()
	sub, err := s.service.CreateSubscription(s.GetContext(), s.tenant, s.monthly)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, sub.Status)
	s.Equal(s.tenant.ID, sub.TenantID)
	s.Equal(s.monthly.ID, sub.PlanID)
	s.False(sub.StartDate.Before(before))

	want, err := types.PeriodEnd(sub.StartDate, types.BillingPeriodUnitMonth, 1, false)
	s.Require().NoError(err)
	s.True(sub.EndDate.Equal(want))
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionKeepsSingleActive() {
	first, err := s.service.CreateSubscription(s.GetContext(), s.tenant, s.monthly)
	s.Require().NoError(err)
	second, err := s.service.CreateSubscription(s.GetContext(), s.tenant, s.monthly)
	s.Require().NoError(err)

	active := s.activeFor(s.tenant.ID)
	s.Len(active, 1)
	s.Equal(second.ID, active[0].ID)

	old, err := s.GetStores().SubscriptionRepo.Get(s.GetContext(), first.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusExpired, old.Status)
	s.True(old.EndDate.Equal(first.EndDate), "demotion on create keeps the end date")
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionAccelerated() {
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	cfg := *params.Config
	cfg.Subscription.AcceleratedDuration = true
	params.Config = &cfg
	svc := NewSubscriptionService(params)

	tests := []struct {
		name string
		plan *plan.Plan
		want time.Duration
	}{
		{name: "month", plan: s.monthly, want: time.Minute},
		{name: "year", plan: s.yearly, want: 5 * time.Minute},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			sub, err := svc.CreateSubscription(s.GetContext(), s.tenant, tt.plan)
			s.NoError(err)
			s.Equal(tt.want, sub.EndDate.Sub(sub.StartDate))
		})
	}
}

func (s *SubscriptionServiceSuite) TestCreateSubscriptionStorageFailure() {
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	params.SubRepo = &testutil.FailingSubscriptionStore{
		Repository: s.subStore,
		CreateErr:  ierr.NewError("connection reset").Mark(ierr.ErrDatabase),
	}
	svc := NewSubscriptionService(params)

	_, err := svc.CreateSubscription(s.GetContext(), s.tenant, s.monthly)
	s.Error(err)
	s.Equal(500, ierr.HTTPStatusFromErr(err))
}

func (s *SubscriptionServiceSuite) TestChangeSubscription() {
	current, err := s.service.CreateSubscription(s.GetContext(), s.tenant, s.monthly)
	s.Require().NoError(err)

	resp, err := s.service.ChangeSubscription(testutil.SetupAdminContext(), dto.ChangeSubscriptionRequest{
		TenantID: s.tenant.ID,
		PlanID:   s.yearly.ID,
	})
	s.Require().NoError(err)
	s.Equal(s.yearly.ID, resp.PlanID)
	s.Require().NotNil(resp.Plan)
	s.Equal("Yearly", resp.Plan.Name)

	old, err := s.GetStores().SubscriptionRepo.Get(s.GetContext(), current.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusExpired, old.Status)
	s.WithinDuration(time.Now().UTC(), old.EndDate, 5*time.Second, "old period is truncated to now")
	s.True(old.EndDate.Before(current.EndDate))

	active := s.activeFor(s.tenant.ID)
	s.Len(active, 1)
	s.Equal(resp.ID, active[0].ID)
}

func (s *SubscriptionServiceSuite) TestChangeSubscriptionWithoutHistory() {
	resp, err := s.service.ChangeSubscription(testutil.SetupAdminContext(), dto.ChangeSubscriptionRequest{
		TenantID: s.tenant.ID,
		PlanID:   s.monthly.ID,
	})
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, resp.Status)
}

func (s *SubscriptionServiceSuite) TestChangeSubscriptionNotFound() {
	tests := []struct {
		name string
		req  dto.ChangeSubscriptionRequest
	}{
		{name: "unknown tenant", req: dto.ChangeSubscriptionRequest{TenantID: "tenant_missing", PlanID: s.monthly.ID}},
		{name: "unknown plan", req: dto.ChangeSubscriptionRequest{TenantID: s.tenant.ID, PlanID: "plan_missing"}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.ChangeSubscription(testutil.SetupAdminContext(), tt.req)
			s.Error(err)
			s.True(ierr.IsNotFound(err))
		})
	}
	s.Empty(s.activeFor(s.tenant.ID))
}

func (s *SubscriptionServiceSuite) TestUpdateSubscriptionActivateDemotesOthers() {
	first, err := s.service.CreateSubscription(s.GetContext(), s.tenant, s.monthly)
	s.Require().NoError(err)
	second, err := s.service.CreateSubscription(s.GetContext(), s.tenant, s.yearly)
	s.Require().NoError(err)

	resp, err := s.service.UpdateSubscription(s.GetContext(), first.ID, dto.UpdateSubscriptionRequest{
		Status: lo.ToPtr(types.SubscriptionStatusActive),
	})
	s.Require().NoError(err)
	s.Equal(types.SubscriptionStatusActive, resp.Status)

	active := s.activeFor(s.tenant.ID)
	s.Len(active, 1)
	s.Equal(first.ID, active[0].ID)

	demoted, err := s.GetStores().SubscriptionRepo.Get(s.GetContext(), second.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusExpired, demoted.Status)
}

func (s *SubscriptionServiceSuite) TestUpdateSubscription() {
	sub, err := s.service.CreateSubscription(s.GetContext(), s.tenant, s.monthly)
	s.Require().NoError(err)

	s.Run("moves plan and end date", func() {
		end := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
		resp, err := s.service.UpdateSubscription(s.GetContext(), sub.ID, dto.UpdateSubscriptionRequest{
			PlanID:  lo.ToPtr(s.yearly.ID),
			EndDate: &end,
		})
		s.NoError(err)
		s.Equal(s.yearly.ID, resp.PlanID)
		s.True(resp.EndDate.Equal(end))
		s.Len(s.activeFor(s.tenant.ID), 1)
	})

	s.Run("unknown status", func() {
		_, err := s.service.UpdateSubscription(s.GetContext(), sub.ID, dto.UpdateSubscriptionRequest{
			Status: lo.ToPtr(types.SubscriptionStatus("paused")),
		})
		s.True(ierr.IsValidation(err))
	})

	s.Run("empty patch", func() {
		_, err := s.service.UpdateSubscription(s.GetContext(), sub.ID, dto.UpdateSubscriptionRequest{})
		s.True(ierr.IsValidation(err))
	})

	s.Run("unknown plan", func() {
		_, err := s.service.UpdateSubscription(s.GetContext(), sub.ID, dto.UpdateSubscriptionRequest{
			PlanID: lo.ToPtr("plan_missing"),
		})
		s.True(ierr.IsNotFound(err))
	})

	s.Run("unknown subscription", func() {
		_, err := s.service.UpdateSubscription(s.GetContext(), "subs_missing", dto.UpdateSubscriptionRequest{
			Status: lo.ToPtr(types.SubscriptionStatusCanceled),
		})
		s.True(ierr.IsNotFound(err))
	})
}

func (s *SubscriptionServiceSuite) TestDisableSubscription() {
	sub, err := s.service.CreateSubscription(s.GetContext(), s.tenant, s.monthly)
	s.Require().NoError(err)

	for i := 0; i < 2; i++ {
		resp, err := s.service.DisableSubscription(s.GetContext(), sub.ID)
		s.NoError(err)
		s.Equal(types.SubscriptionStatusCanceled, resp.Status)
	}
	s.Empty(s.activeFor(s.tenant.ID))

	active, err := s.service.GetActiveSubscription(s.GetContext(), s.tenant.ID)
	s.Error(err, "default context belongs to another tenant")
	s.Nil(active)

	active, err = s.service.GetActiveSubscription(testutil.SetupAdminContext(), s.tenant.ID)
	s.NoError(err)
	s.Nil(active.Subscription)
}

func (s *SubscriptionServiceSuite) TestListSubscriptionsByTenant() {
	first, err := s.service.CreateSubscription(s.GetContext(), s.tenant, s.monthly)
	s.Require().NoError(err)
	second, err := s.service.CreateSubscription(s.GetContext(), s.tenant, s.yearly)
	s.Require().NoError(err)

	tenantCtx := types.SetTenantID(context.Background(), s.tenant.ID)
	tenantCtx = types.SetUserRole(tenantCtx, types.UserRoleSuperAdmin)

	resp, err := s.service.ListSubscriptionsByTenant(tenantCtx, s.tenant.ID)
	s.NoError(err)
	s.Require().Len(resp.Items, 2)
	s.Equal(second.ID, resp.Items[0].ID)
	s.Equal(first.ID, resp.Items[1].ID)
	s.Require().NotNil(resp.Items[0].Plan)
	s.Equal("Yearly", resp.Items[0].Plan.Name)

	active, err := s.service.GetActiveSubscription(tenantCtx, s.tenant.ID)
	s.NoError(err)
	s.Require().NotNil(active.Subscription)
	s.Equal(second.ID, active.Subscription.ID)

	_, err = s.service.ListSubscriptionsByTenant(testutil.SetupContext(), s.tenant.ID)
	s.True(ierr.IsPermissionDenied(err))
}
