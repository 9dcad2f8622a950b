package service

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
	"github.com/taktakmenu/platform/internal/domain/plan"
	"github.com/taktakmenu/platform/internal/domain/subscription"
	"github.com/taktakmenu/platform/internal/domain/tenant"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/testutil"
	"github.com/taktakmenu/platform/internal/types"
)

type AccessServiceSuite struct {
	testutil.BaseServiceTestSuite
	service *accessService
	tenant  *tenant.Tenant
	plan    *plan.Plan
}

func TestAccessService(t *testing.T) {
	suite.Run(t, new(AccessServiceSuite))
}

func (s *AccessServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAccessService(newTestServiceParams(&s.BaseServiceTestSuite)).(*accessService)
	s.tenant = s.CreateTenant("ramen")
	s.plan = s.CreatePlan("Monthly", "10.00", types.BillingPeriodUnitMonth, 1)
}

func (s *AccessServiceSuite) storeSubscription(status types.SubscriptionStatus, end time.Time) *subscription.Subscription {
	sub := &subscription.Subscription{
		ID:        types.GenerateUUIDWithPrefix(types.IDPrefixSubscription),
		TenantID:  s.tenant.ID,
		PlanID:    s.plan.ID,
		StartDate: end.Add(-time.Hour),
		EndDate:   end,
		Status:    status,
		CreatedAt: s.GetNow(),
		UpdatedAt: s.GetNow(),
	}
	s.Require().NoError(s.GetStores().SubscriptionRepo.Create(s.GetContext(), sub))
	return sub
}

func (s *AccessServiceSuite) hint(err error) string {
	hints := errors.GetAllHints(err)
	if len(hints) == 0 {
		return ""
	}
	return hints[0]
}

func (s *AccessServiceSuite) TestResolvesBySubdomain() {
	sub := s.storeSubscription(types.SubscriptionStatusActive, time.Now().Add(time.Hour))

	t, got, err := s.service.CheckAccess(types.SetSubdomain(context.Background(), "ramen"))
	s.NoError(err)
	s.Equal(s.tenant.ID, t.ID)
	s.Equal(sub.ID, got.ID)
}

func (s *AccessServiceSuite) TestResolvesByIdentity() {
	s.storeSubscription(types.SubscriptionStatusActive, time.Now().Add(time.Hour))

	t, _, err := s.service.CheckAccess(types.SetTenantID(context.Background(), s.tenant.ID))
	s.NoError(err)
	s.Equal(s.tenant.ID, t.ID)
}

func (s *AccessServiceSuite) TestUnknownSubdomainFallsBackToIdentity() {
	s.storeSubscription(types.SubscriptionStatusActive, time.Now().Add(time.Hour))

	ctx := types.SetSubdomain(context.Background(), "unknown")
	ctx = types.SetTenantID(ctx, s.tenant.ID)

	t, _, err := s.service.CheckAccess(ctx)
	s.NoError(err)
	s.Equal(s.tenant.ID, t.ID)
}

// brokenSubdomainLookup fails every subdomain lookup with a storage error
type brokenSubdomainLookup struct {
	tenant.Repository
}

func (r brokenSubdomainLookup) GetBySubdomain(context.Context, string) (*tenant.Tenant, error) {
	return nil, ierr.NewError("connection reset").Mark(ierr.ErrDatabase)
}

func (s *AccessServiceSuite) TestFailedSubdomainLookupFallsBackToIdentity() {
	s.storeSubscription(types.SubscriptionStatusActive, time.Now().Add(time.Hour))

	params := newTestServiceParams(&s.BaseServiceTestSuite)
	params.TenantRepo = brokenSubdomainLookup{Repository: params.TenantRepo}
	svc := NewAccessService(params)

	ctx := types.SetSubdomain(context.Background(), "ramen")
	ctx = types.SetTenantID(ctx, s.tenant.ID)

	t, _, err := svc.CheckAccess(ctx)
	s.NoError(err)
	s.Equal(s.tenant.ID, t.ID)

	_, _, err = svc.CheckAccess(types.SetSubdomain(context.Background(), "ramen"))
	s.True(ierr.IsPermissionDenied(err))
	s.Equal("Tenant not found", s.hint(err))
}

func (s *AccessServiceSuite) TestDenied() {
	tests := []struct {
		name string
		ctx  context.Context
		hint string
	}{
		{name: "no tenant information", ctx: context.Background(), hint: "Tenant not found"},
		{name: "unknown subdomain only", ctx: types.SetSubdomain(context.Background(), "unknown"), hint: "Tenant not found"},
		{name: "identity tenant missing", ctx: types.SetTenantID(context.Background(), "tenant_gone"), hint: "No active subscription found"},
		{name: "no subscription", ctx: types.SetSubdomain(context.Background(), "ramen"), hint: "No active subscription found"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, _, err := s.service.CheckAccess(tt.ctx)
			s.Error(err)
			s.True(ierr.IsPermissionDenied(err))
			s.Equal(403, ierr.HTTPStatusFromErr(err))
			s.Equal(tt.hint, s.hint(err))
		})
	}
}

func (s *AccessServiceSuite) TestCanceledSubscriptionDenied() {
	s.storeSubscription(types.SubscriptionStatusCanceled, time.Now().Add(time.Hour))

	_, _, err := s.service.CheckAccess(types.SetSubdomain(context.Background(), "ramen"))
	s.True(ierr.IsPermissionDenied(err))
	s.Equal("No active subscription found", s.hint(err))
}

func (s *AccessServiceSuite) TestLapsedSubscriptionIsNotWritten() {
	sub := s.storeSubscription(types.SubscriptionStatusActive, time.Now().Add(-time.Second))

	_, _, err := s.service.CheckAccess(types.SetSubdomain(context.Background(), "ramen"))
	s.True(ierr.IsPermissionDenied(err))
	s.Equal("Subscription expired", s.hint(err))

	stored, err := s.GetStores().SubscriptionRepo.Get(s.GetContext(), sub.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.Status)
}

func (s *AccessServiceSuite) TestBoundaryIsInclusive() {
	end := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	s.storeSubscription(types.SubscriptionStatusActive, end)
	ctx := types.SetSubdomain(context.Background(), "ramen")

	s.service.now = func() time.Time { return end }
	_, _, err := s.service.CheckAccess(ctx)
	s.NoError(err, "end date equal to now still grants access")

	s.service.now = func() time.Time { return end.Add(time.Nanosecond) }
	_, _, err = s.service.CheckAccess(ctx)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *AccessServiceSuite) TestEnsureTenantScope() {
	s.NoError(ensureTenantScope(testutil.SetupAdminContext(), "tenant_any"))
	s.NoError(ensureTenantScope(testutil.SetupContext(), testutil.DefaultTenantID))
	s.True(ierr.IsPermissionDenied(ensureTenantScope(testutil.SetupContext(), "tenant_other")))
	s.True(ierr.IsPermissionDenied(ensureTenantScope(context.Background(), "")))
}
