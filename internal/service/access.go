package service

import (
	"context"
	"time"

	"github.com/taktakmenu/platform/internal/domain/subscription"
	"github.com/taktakmenu/platform/internal/domain/tenant"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

// AccessService decides whether a request may reach tenant scoped resources.
// It only reads; an active subscription past its end date stays active in
// storage and is rejected here.
type AccessService interface {
	CheckAccess(ctx context.Context) (*tenant.Tenant, *subscription.Subscription, error)
}

type accessService struct {
	ServiceParams
	now func() time.Time
}

func NewAccessService(params ServiceParams) AccessService {
	return &accessService{ServiceParams: params, now: time.Now}
}

func (s *accessService) CheckAccess(ctx context.Context) (*tenant.Tenant, *subscription.Subscription, error) {
	t, tenantID := s.resolveTenant(ctx)
	if tenantID == "" {
		return nil, nil, accessDenied("tenant not found", "Tenant not found", "")
	}

	sub, err := s.SubRepo.GetActive(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	if sub == nil {
		return nil, nil, accessDenied("no active subscription", "No active subscription found", tenantID)
	}
	if sub.HasLapsed(s.now()) {
		return nil, nil, accessDenied("subscription expired", "Subscription expired", tenantID)
	}
	if !sub.IsActive() {
		return nil, nil, ierr.NewError("subscription not active").
			WithHintf("Subscription is %s", sub.Status).
			WithTenant(tenantID).
			WithReportableDetails(map[string]any{"status": sub.Status}).
			Mark(ierr.ErrPermissionDenied)
	}

	if t == nil {
		t, err = s.TenantRepo.GetByID(ctx, tenantID)
		if err != nil {
			if ierr.IsNotFound(err) {
				return nil, nil, accessDenied("tenant not found", "Tenant not found", tenantID)
			}
			return nil, nil, err
		}
	}

	return t, sub, nil
}

// resolveTenant prefers the addressed subdomain. Any failed lookup falls back
// to the caller's own tenant ID, which is used as is; the tenant row is only
// loaded once a subscription admits it.
func (s *accessService) resolveTenant(ctx context.Context) (*tenant.Tenant, string) {
	if subdomain := types.GetSubdomain(ctx); subdomain != "" {
		t, err := s.TenantRepo.GetBySubdomain(ctx, subdomain)
		switch {
		case err == nil && t != nil:
			return t, t.ID
		case err == nil || ierr.IsNotFound(err):
			s.Logger.Debugw("subdomain did not resolve, trying caller tenant", "subdomain", subdomain)
		default:
			s.Logger.Warnw("subdomain lookup failed, trying caller tenant", "subdomain", subdomain, "error", err)
		}
	}

	return nil, types.GetTenantID(ctx)
}

func accessDenied(msg, hint, tenantID string) error {
	return ierr.NewError(msg).
		WithHint(hint).
		WithTenant(tenantID).
		Mark(ierr.ErrPermissionDenied)
}

// ensureTenantScope lets platform operators through and restricts everyone
// else to their own tenant
func ensureTenantScope(ctx context.Context, tenantID string) error {
	if types.GetUserRole(ctx).IsPlatformOperator() {
		return nil
	}
	if tenantID != "" && types.GetTenantID(ctx) == tenantID {
		return nil
	}
	return ierr.NewError("tenant scope violation").
		WithHint("You do not have access to this tenant").
		WithTenant(tenantID).
		Mark(ierr.ErrPermissionDenied)
}
