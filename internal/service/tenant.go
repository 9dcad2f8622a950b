package service

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/taktakmenu/platform/internal/api/dto"
	"github.com/taktakmenu/platform/internal/domain/tenant"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

type TenantService interface {
	// CreateTenant provisions a tenant, its SUPER_ADMIN user and a first
	// subscription on the requested plan
	CreateTenant(ctx context.Context, req dto.CreateTenantRequest) (*dto.TenantResponse, error)
	GetTenant(ctx context.Context, id string) (*dto.TenantResponse, error)
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*dto.TenantResponse, error)
	ListTenants(ctx context.Context, filter *types.TenantFilter) (*dto.ListTenantsResponse, error)
	// UpdateTenantProfile edits the caller's own tenant
	UpdateTenantProfile(ctx context.Context, req dto.UpdateTenantProfileRequest) (*dto.TenantResponse, error)
	UpdateTenant(ctx context.Context, id string, req dto.UpdateTenantRequest) (*dto.TenantResponse, error)
	DeleteTenant(ctx context.Context, id string) error
}

type tenantService struct {
	ServiceParams
	userService         UserService
	subscriptionService SubscriptionService
}

func NewTenantService(
	params ServiceParams,
	userService UserService,
	subscriptionService SubscriptionService,
) TenantService {
	return &tenantService{
		ServiceParams:       params,
		userService:         userService,
		subscriptionService: subscriptionService,
	}
}

func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.TenantRepo.GetBySubdomain(ctx, req.Subdomain); err == nil {
		return nil, tenant.NewSubdomainTakenError(req.Subdomain)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	if _, err := s.TenantRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, tenant.NewEmailTakenError(req.Email)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	// resolved before any write so a bad plan id leaves nothing behind
	p, err := s.PlanRepo.Get(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	t := req.ToTenant(ctx)
	if err := s.TenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	admin, err := s.userService.CreateUser(ctx, CreateUserParams{
		Email:     req.Email,
		FullName:  req.FullName,
		Password:  req.Password,
		Role:      types.UserRoleSuperAdmin,
		TenantID:  lo.ToPtr(t.ID),
		CreatedBy: t.CreatedBy,
	})
	if err != nil {
		return nil, s.rollbackTenant(ctx, t, err)
	}

	resp := dto.NewTenantResponse(t)
	resp.AdminUserID = admin.ID

	sub, err := s.subscriptionService.CreateSubscription(ctx, t, p)
	if err != nil {
		// the tenant stays without a subscription and is refused by the
		// access guard until an operator assigns one
		s.Logger.Errorw("failed to create initial subscription",
			"tenant_id", t.ID,
			"plan_id", p.ID,
			"error", err,
		)
		return resp, nil
	}

	resp.Subscription = dto.NewSubscriptionResponse(sub)
	resp.Subscription.Plan = dto.NewPlanResponse(p)

	s.Logger.Infow("tenant provisioned",
		"tenant_id", t.ID,
		"subdomain", t.Subdomain,
		"admin_user_id", admin.ID,
		"subscription_id", sub.ID,
	)
	return resp, nil
}

// rollbackTenant deletes a partially provisioned tenant and returns cause.
// cause is marked as rolled back only when the delete went through.
func (s *tenantService) rollbackTenant(ctx context.Context, t *tenant.Tenant, cause error) error {
	if err := s.TenantRepo.Delete(ctx, t.ID); err != nil {
		s.Logger.Errorw("failed to roll back tenant",
			"tenant_id", t.ID,
			"subdomain", t.Subdomain,
			"cause", cause,
			"error", err,
		)
		return cause
	}

	s.Logger.Warnw("tenant provisioning rolled back",
		"tenant_id", t.ID,
		"subdomain", t.Subdomain,
		"cause", cause,
	)
	return ierr.WithError(cause).Mark(ierr.ErrRolledBack)
}

func (s *tenantService) GetTenant(ctx context.Context, id string) (*dto.TenantResponse, error) {
	t, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withSubscription(ctx, t), nil
}

func (s *tenantService) GetTenantBySubdomain(ctx context.Context, subdomain string) (*dto.TenantResponse, error) {
	t, err := s.TenantRepo.GetBySubdomain(ctx, strings.ToLower(subdomain))
	if err != nil {
		return nil, err
	}
	return s.withSubscription(ctx, t), nil
}

func (s *tenantService) ListTenants(ctx context.Context, filter *types.TenantFilter) (*dto.ListTenantsResponse, error) {
	if filter == nil {
		filter = types.NewTenantFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	tenants, err := s.TenantRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.TenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := lo.Map(tenants, func(t *tenant.Tenant, _ int) *dto.TenantResponse {
		return dto.NewTenantResponse(t)
	})
	resp := types.NewListResponse(items, total, filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

func (s *tenantService) UpdateTenantProfile(ctx context.Context, req dto.UpdateTenantProfileRequest) (*dto.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tenantID := types.GetTenantID(ctx)
	if tenantID == "" {
		return nil, ierr.NewError("no tenant in context").
			WithHint("Only tenant users can update a tenant profile").
			Mark(ierr.ErrPermissionDenied)
	}

	t, err := s.TenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	req.Apply(t)
	if err := s.TenantRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return dto.NewTenantResponse(t), nil
}

func (s *tenantService) UpdateTenant(ctx context.Context, id string, req dto.UpdateTenantRequest) (*dto.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.TenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.UpdateTenantProfileRequest.Apply(t)
	if req.Subdomain != nil {
		t.Subdomain = strings.ToLower(strings.TrimSpace(*req.Subdomain))
	}
	if req.Email != nil {
		t.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.TenantRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return dto.NewTenantResponse(t), nil
}

// DeleteTenant removes the tenant. Users and subscriptions go with it.
func (s *tenantService) DeleteTenant(ctx context.Context, id string) error {
	if err := s.TenantRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Infow("tenant deleted", "tenant_id", id, "deleted_by", types.GetUserID(ctx))
	return nil
}

func (s *tenantService) withSubscription(ctx context.Context, t *tenant.Tenant) *dto.TenantResponse {
	resp := dto.NewTenantResponse(t)
	sub, err := s.SubRepo.GetActive(ctx, t.ID)
	if err != nil {
		s.Logger.Warnw("failed to load active subscription", "tenant_id", t.ID, "error", err)
		return resp
	}
	resp.Subscription = dto.NewSubscriptionResponse(sub)
	return resp
}
