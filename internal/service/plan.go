package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/taktakmenu/platform/internal/api/dto"
	"github.com/taktakmenu/platform/internal/domain/plan"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

// PlanService is the plan catalog
type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	// GetPlan resolves a plan by id, archived or not. A missing plan is
	// always an error; there is no fallback plan.
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context, filter *types.PlanFilter) (*dto.ListPlansResponse, error)
	ListPublicPlans(ctx context.Context, includeArchived bool) ([]*dto.PlanResponse, error)
	UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	DeletePlan(ctx context.Context, id string) error
	ToggleArchive(ctx context.Context, id string) (*dto.PlanResponse, error)
	GetStatistics(ctx context.Context) (*dto.PlanStatisticsResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPlan(ctx)
	if err := s.PlanRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("plan created", "plan_id", p.ID, "name", p.Name)
	return dto.NewPlanResponse(p), nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	if id == "" {
		return nil, ierr.NewError("plan id is required").
			WithHint("Plan ID is required").
			Mark(ierr.ErrValidation)
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPlanResponse(p), nil
}

func (s *planService) ListPlans(ctx context.Context, filter *types.PlanFilter) (*dto.ListPlansResponse, error) {
	if filter == nil {
		filter = types.NewPlanFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	plans, err := s.PlanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.PlanRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(plans, func(p *plan.Plan, _ int) *dto.PlanResponse {
		return dto.NewPlanResponse(p)
	})
	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *planService) ListPublicPlans(ctx context.Context, includeArchived bool) ([]*dto.PlanResponse, error) {
	plans, err := s.PlanRepo.ListPublic(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	return lo.Map(plans, func(p *plan.Plan, _ int) *dto.PlanResponse {
		return dto.NewPlanResponse(p)
	}), nil
}

func (s *planService) UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ChangesBillingTerms(p) {
		count, err := s.SubRepo.CountByPlan(ctx, id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ierr.NewError("plan billing terms are locked").
				WithHint("Price, currency and billing period cannot change once the plan has subscriptions").
				WithReportableDetails(map[string]any{
					"plan_id":            id,
					"subscription_count": count,
				}).
				Mark(ierr.ErrConflict)
		}
	}

	req.Apply(p)
	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return dto.NewPlanResponse(p), nil
}

func (s *planService) DeletePlan(ctx context.Context, id string) error {
	if _, err := s.PlanRepo.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.SubRepo.CountByPlan(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ierr.NewError("plan has subscriptions").
			WithHint("Cannot delete a plan that has subscriptions, archive it instead").
			WithReportableDetails(map[string]any{
				"plan_id":            id,
				"subscription_count": count,
			}).
			Mark(ierr.ErrConflict)
	}

	if err := s.PlanRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Infow("plan deleted", "plan_id", id)
	return nil
}

// ToggleArchive flips the archived flag. Subscriptions already on the plan
// are untouched.
func (s *planService) ToggleArchive(ctx context.Context, id string) (*dto.PlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p.IsArchived = !p.IsArchived
	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return dto.NewPlanResponse(p), nil
}

func (s *planService) GetStatistics(ctx context.Context) (*dto.PlanStatisticsResponse, error) {
	plans, err := s.PlanRepo.ListPublic(ctx, false)
	if err != nil {
		return nil, err
	}

	stats := &plan.Statistics{
		TotalPlans:   len(plans),
		AveragePrice: decimal.Zero,
	}
	if len(plans) > 0 {
		total := lo.Reduce(plans, func(sum decimal.Decimal, p *plan.Plan, _ int) decimal.Decimal {
			return sum.Add(p.Price)
		}, decimal.Zero)
		stats.AveragePrice = total.Div(decimal.NewFromInt(int64(len(plans)))).Round(2)
	}
	if popular, ok := lo.Find(plans, func(p *plan.Plan) bool { return p.IsPopular }); ok {
		stats.MostPopularPlan = lo.ToPtr(popular.Name)
	}

	return &dto.PlanStatisticsResponse{Statistics: stats}, nil
}
