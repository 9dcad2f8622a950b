package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/taktakmenu/platform/internal/api/dto"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/testutil"
	"github.com/taktakmenu/platform/internal/types"
)

type PlanServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PlanService
	ledger  SubscriptionService
}

func TestPlanService(t *testing.T) {
	suite.Run(t, new(PlanServiceSuite))
}

func (s *PlanServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.service = NewPlanService(params)
	s.ledger = NewSubscriptionService(params)
}

func (s *PlanServiceSuite) TestCreatePlan() {
	tests := []struct {
		name    string
		req     dto.CreatePlanRequest
		wantErr func(error) bool
	}{
		{
			name: "applies defaults",
			req: dto.CreatePlanRequest{
				Name:     "Starter",
				Price:    decimal.RequireFromString("9.99"),
				Features: []string{"menu", "qr"},
			},
		},
		{
			name: "negative price",
			req: dto.CreatePlanRequest{
				Name:     "Broken",
				Price:    decimal.RequireFromString("-1"),
				Features: []string{"menu"},
			},
			wantErr: ierr.IsValidation,
		},
		{
			name: "three decimal places",
			req: dto.CreatePlanRequest{
				Name:     "Precise",
				Price:    decimal.RequireFromString("1.005"),
				Features: []string{"menu"},
			},
			wantErr: ierr.IsValidation,
		},
		{
			name: "no features",
			req: dto.CreatePlanRequest{
				Name:  "Empty",
				Price: decimal.Zero,
			},
			wantErr: ierr.IsValidation,
		},
		{
			name: "unknown billing unit",
			req: dto.CreatePlanRequest{
				Name:              "Weekly",
				Price:             decimal.NewFromInt(1),
				BillingPeriodUnit: types.BillingPeriodUnit("week"),
				Features:          []string{"menu"},
			},
			wantErr: ierr.IsValidation,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.service.CreatePlan(s.GetContext(), tt.req)
			if tt.wantErr != nil {
				s.Error(err)
				s.True(tt.wantErr(err), "unexpected error class: %v", err)
				return
			}
			s.NoError(err)
			s.Equal(types.DefaultCurrency, resp.Currency)
			s.Equal(types.BillingPeriodUnitMonth, resp.BillingPeriodUnit)
			s.Equal(1, resp.BillingPeriodValue)
			s.False(resp.IsArchived)
		})
	}
}

func (s *PlanServiceSuite) TestCreatePlanDuplicateName() {
	s.CreatePlan("Pro", "29.00", types.BillingPeriodUnitMonth, 1)

	_, err := s.service.CreatePlan(s.GetContext(), dto.CreatePlanRequest{
		Name:     "Pro",
		Price:    decimal.NewFromInt(10),
		Features: []string{"menu"},
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *PlanServiceSuite) TestGetPlanNotFound() {
	_, err := s.service.GetPlan(s.GetContext(), "plan_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PlanServiceSuite) TestListPublicPlansOrderedByPrice() {
	s.CreatePlan("Pro", "29.00", types.BillingPeriodUnitMonth, 1)
	s.CreatePlan("Free", "0", types.BillingPeriodUnitMonth, 1)
	archived := s.CreatePlan("Legacy", "5.00", types.BillingPeriodUnitMonth, 1)
	_, err := s.service.ToggleArchive(s.GetContext(), archived.ID)
	s.Require().NoError(err)

	plans, err := s.service.ListPublicPlans(s.GetContext(), false)
	s.NoError(err)
	s.Equal([]string{"Free", "Pro"}, lo.Map(plans, func(p *dto.PlanResponse, _ int) string { return p.Name }))

	plans, err = s.service.ListPublicPlans(s.GetContext(), true)
	s.NoError(err)
	s.Equal([]string{"Free", "Legacy", "Pro"}, lo.Map(plans, func(p *dto.PlanResponse, _ int) string { return p.Name }))
}

func (s *PlanServiceSuite) TestListPlansPagination() {
	for _, name := range []string{"A", "B", "C"} {
		s.CreatePlan(name, "1.00", types.BillingPeriodUnitMonth, 1)
	}

	filter := types.NewPlanFilter()
	filter.Limit = lo.ToPtr(2)

	resp, err := s.service.ListPlans(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(3, resp.Pagination.Total)
	s.Equal(2, resp.Pagination.Limit)
	s.True(resp.Pagination.HasMore)

	filter.Offset = lo.ToPtr(2)
	resp, err = s.service.ListPlans(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.False(resp.Pagination.HasMore)
}

func (s *PlanServiceSuite) TestUpdatePlanLocksBillingTerms() {
	p := s.CreatePlan("Pro", "29.00", types.BillingPeriodUnitMonth, 1)
	t := s.CreateTenant("burgers")
	_, err := s.ledger.CreateSubscription(s.GetContext(), t, p)
	s.Require().NoError(err)

	s.Run("price change refused", func() {
		_, err := s.service.UpdatePlan(s.GetContext(), p.ID, dto.UpdatePlanRequest{
			Price: lo.ToPtr(decimal.RequireFromString("39.00")),
		})
		s.Error(err)
		s.True(ierr.IsConflict(err))
	})

	s.Run("same price is not a change", func() {
		_, err := s.service.UpdatePlan(s.GetContext(), p.ID, dto.UpdatePlanRequest{
			Price: lo.ToPtr(decimal.RequireFromString("29")),
		})
		s.NoError(err)
	})

	s.Run("description change allowed", func() {
		resp, err := s.service.UpdatePlan(s.GetContext(), p.ID, dto.UpdatePlanRequest{
			Description: lo.ToPtr("now with analytics"),
			IsPopular:   lo.ToPtr(true),
		})
		s.NoError(err)
		s.Equal("now with analytics", resp.Description)
		s.True(resp.IsPopular)
	})
}

func (s *PlanServiceSuite) TestDeletePlan() {
	s.Run("unused plan", func() {
		p := s.CreatePlan("Unused", "1.00", types.BillingPeriodUnitMonth, 1)
		s.NoError(s.service.DeletePlan(s.GetContext(), p.ID))

		_, err := s.service.GetPlan(s.GetContext(), p.ID)
		s.True(ierr.IsNotFound(err))
	})

	s.Run("plan with subscriptions", func() {
		p := s.CreatePlan("Used", "1.00", types.BillingPeriodUnitMonth, 1)
		t := s.CreateTenant("pizza")
		_, err := s.ledger.CreateSubscription(s.GetContext(), t, p)
		s.Require().NoError(err)

		err = s.service.DeletePlan(s.GetContext(), p.ID)
		s.Error(err)
		s.True(ierr.IsConflict(err))
	})
}

func (s *PlanServiceSuite) TestToggleArchive() {
	p := s.CreatePlan("Seasonal", "3.00", types.BillingPeriodUnitMonth, 1)

	resp, err := s.service.ToggleArchive(s.GetContext(), p.ID)
	s.NoError(err)
	s.True(resp.IsArchived)

	resp, err = s.service.ToggleArchive(s.GetContext(), p.ID)
	s.NoError(err)
	s.False(resp.IsArchived)
}

func (s *PlanServiceSuite) TestGetStatistics() {
	s.Run("empty catalog", func() {
		stats, err := s.service.GetStatistics(s.GetContext())
		s.NoError(err)
		s.Equal(0, stats.TotalPlans)
		s.True(stats.AveragePrice.IsZero())
		s.Nil(stats.MostPopularPlan)
	})

	s.Run("ignores archived plans", func() {
		s.CreatePlan("Basic", "10.00", types.BillingPeriodUnitMonth, 1)
		pro := s.CreatePlan("Pro", "20.00", types.BillingPeriodUnitMonth, 1)
		s.CreatePlan("Team", "25.00", types.BillingPeriodUnitMonth, 1)
		old := s.CreatePlan("Old", "100.00", types.BillingPeriodUnitMonth, 1)

		_, err := s.service.UpdatePlan(s.GetContext(), pro.ID, dto.UpdatePlanRequest{IsPopular: lo.ToPtr(true)})
		s.Require().NoError(err)
		_, err = s.service.ToggleArchive(s.GetContext(), old.ID)
		s.Require().NoError(err)

		stats, err := s.service.GetStatistics(s.GetContext())
		s.NoError(err)
		s.Equal(3, stats.TotalPlans)
		s.Equal("18.33", stats.AveragePrice.StringFixed(2))
		s.Require().NotNil(stats.MostPopularPlan)
		s.Equal("Pro", *stats.MostPopularPlan)
	})
}
