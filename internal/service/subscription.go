package service

import (
	"context"
	"time"

	"github.com/taktakmenu/platform/internal/api/dto"
	"github.com/taktakmenu/platform/internal/domain/plan"
	"github.com/taktakmenu/platform/internal/domain/subscription"
	"github.com/taktakmenu/platform/internal/domain/tenant"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

// SubscriptionService is the subscription ledger. A tenant has at most one
// active subscription at any time.
type SubscriptionService interface {
	// CreateSubscription demotes the tenant's active subscriptions and starts a
	// new one on p from now. Calling it twice leaves exactly one active row.
	CreateSubscription(ctx context.Context, t *tenant.Tenant, p *plan.Plan) (*subscription.Subscription, error)
	// ChangeSubscription ends the current subscription now and starts the new
	// plan. Remaining time is not carried over.
	ChangeSubscription(ctx context.Context, req dto.ChangeSubscriptionRequest) (*dto.SubscriptionResponse, error)
	UpdateSubscription(ctx context.Context, id string, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	DisableSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	GetActiveSubscription(ctx context.Context, tenantID string) (*dto.ActiveSubscriptionResponse, error)
	ListSubscriptionsByTenant(ctx context.Context, tenantID string) (*dto.ListSubscriptionsResponse, error)
}

type subscriptionService struct {
	ServiceParams
	accelerated bool
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
		accelerated:   params.Config.Subscription.AcceleratedDuration,
	}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, t *tenant.Tenant, p *plan.Plan) (*subscription.Subscription, error) {
	now := time.Now().UTC()
	endDate, err := p.PeriodEnd(now, s.accelerated)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create subscription").
			Mark(ierr.ErrSystem)
	}

	sub := &subscription.Subscription{
		ID:        types.GenerateUUIDWithPrefix(types.IDPrefixSubscription),
		TenantID:  t.ID,
		PlanID:    p.ID,
		StartDate: now,
		EndDate:   endDate,
		Status:    types.SubscriptionStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.SubRepo.ExpireActive(ctx, t.ID, "", nil); err != nil {
			return err
		}
		return s.SubRepo.Create(ctx, sub)
	})
	if err != nil {
		if ierr.IsConflict(err) {
			return nil, err
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to create subscription").
			WithReportableDetails(map[string]any{
				"tenant_id": t.ID,
				"plan_id":   p.ID,
			}).
			Mark(ierr.ErrSystem)
	}

	s.Logger.Infow("subscription created",
		"subscription_id", sub.ID,
		"tenant_id", t.ID,
		"plan_id", p.ID,
		"end_date", sub.EndDate,
		"accelerated", s.accelerated,
	)
	return sub, nil
}

func (s *subscriptionService) ChangeSubscription(ctx context.Context, req dto.ChangeSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	var sub *subscription.Subscription
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		expired, err := s.SubRepo.ExpireActive(ctx, t.ID, "", &now)
		if err != nil {
			return err
		}
		if expired > 0 {
			s.Logger.Debugw("current subscription truncated", "tenant_id", t.ID, "end_date", now)
		}

		sub, err = s.CreateSubscription(ctx, t, p)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewSubscriptionResponse(sub)
	resp.Plan = dto.NewPlanResponse(p)
	return resp, nil
}

func (s *subscriptionService) UpdateSubscription(ctx context.Context, id string, req dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	planID := sub.PlanID
	if req.PlanID != nil {
		planID = *req.PlanID
	}
	p, err := s.PlanRepo.Get(ctx, planID)
	if err != nil {
		return nil, err
	}

	sub.PlanID = p.ID
	if req.EndDate != nil {
		sub.EndDate = req.EndDate.UTC()
	}
	if req.Status != nil {
		sub.Status = *req.Status
	}
	sub.UpdatedAt = time.Now().UTC()

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if sub.IsActive() {
			if _, err := s.SubRepo.ExpireActive(ctx, sub.TenantID, sub.ID, nil); err != nil {
				return err
			}
		}
		return s.SubRepo.Update(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	resp := dto.NewSubscriptionResponse(sub)
	resp.Plan = dto.NewPlanResponse(p)
	return resp, nil
}

func (s *subscriptionService) DisableSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sub.Status = types.SubscriptionStatusCanceled
	sub.UpdatedAt = time.Now().UTC()
	if err := s.SubRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.Logger.Infow("subscription disabled", "subscription_id", id, "tenant_id", sub.TenantID)
	return s.withPlan(ctx, sub), nil
}

func (s *subscriptionService) GetActiveSubscription(ctx context.Context, tenantID string) (*dto.ActiveSubscriptionResponse, error) {
	if err := ensureTenantScope(ctx, tenantID); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.GetActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &dto.ActiveSubscriptionResponse{}, nil
	}
	return &dto.ActiveSubscriptionResponse{Subscription: s.withPlan(ctx, sub)}, nil
}

func (s *subscriptionService) ListSubscriptionsByTenant(ctx context.Context, tenantID string) (*dto.ListSubscriptionsResponse, error) {
	if err := ensureTenantScope(ctx, tenantID); err != nil {
		return nil, err
	}

	subs, err := s.SubRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListSubscriptionsResponse{
		Items: make([]*dto.SubscriptionResponse, 0, len(subs)),
	}
	for _, sub := range subs {
		resp.Items = append(resp.Items, s.withPlan(ctx, sub))
	}
	return resp, nil
}

// withPlan attaches the plan when it can be loaded. A plan lookup failure only
// drops the expansion.
func (s *subscriptionService) withPlan(ctx context.Context, sub *subscription.Subscription) *dto.SubscriptionResponse {
	resp := dto.NewSubscriptionResponse(sub)
	p, err := s.PlanRepo.Get(ctx, sub.PlanID)
	if err != nil {
		s.Logger.Warnw("failed to load subscription plan",
			"subscription_id", sub.ID,
			"plan_id", sub.PlanID,
			"error", err,
		)
		return resp
	}
	resp.Plan = dto.NewPlanResponse(p)
	return resp
}
