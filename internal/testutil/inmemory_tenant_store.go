package testutil

import (
	"context"
	"strings"

	"github.com/taktakmenu/platform/internal/domain/tenant"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

// InMemoryTenantStore implements tenant.Repository with the same uniqueness
// rules as the tenants table
type InMemoryTenantStore struct {
	*InMemoryStore[*tenant.Tenant]
}

func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		InMemoryStore: NewInMemoryStore[*tenant.Tenant](),
	}
}

func copyTenant(t *tenant.Tenant) *tenant.Tenant {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func tenantFilterFn(ctx context.Context, t *tenant.Tenant, filter interface{}) bool {
	f, ok := filter.(*types.TenantFilter)
	if !ok || f == nil {
		return true
	}
	return f.Subdomain == "" || t.Subdomain == f.Subdomain
}

func tenantSortFn(i, j *tenant.Tenant) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

// tenantConstraints mirror the unique indexes on tenants
var tenantConstraints = []Constraint[*tenant.Tenant]{
	{
		Conflicts: func(existing, candidate *tenant.Tenant) bool { return existing.Subdomain == candidate.Subdomain },
		Err:       func(t *tenant.Tenant) error { return tenant.NewSubdomainTakenError(t.Subdomain) },
	},
	{
		Conflicts: func(existing, candidate *tenant.Tenant) bool { return strings.EqualFold(existing.Email, candidate.Email) },
		Err:       func(t *tenant.Tenant) error { return tenant.NewEmailTakenError(t.Email) },
	},
}

func (s *InMemoryTenantStore) Create(ctx context.Context, t *tenant.Tenant) error {
	return s.InMemoryStore.Create(ctx, t.ID, copyTenant(t), tenantConstraints...)
}

func (s *InMemoryTenantStore) GetByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, tenant.NewTenantNotFoundError(id)
	}
	return copyTenant(t), nil
}

func (s *InMemoryTenantStore) GetBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	t, ok := s.find(func(t *tenant.Tenant) bool { return t.Subdomain == subdomain })
	if !ok {
		return nil, tenant.NewSubdomainNotFoundError(subdomain)
	}
	return copyTenant(t), nil
}

func (s *InMemoryTenantStore) GetByEmail(ctx context.Context, email string) (*tenant.Tenant, error) {
	t, ok := s.find(func(t *tenant.Tenant) bool { return strings.EqualFold(t.Email, email) })
	if !ok {
		return nil, tenant.NewTenantNotFoundError(email)
	}
	return copyTenant(t), nil
}

func (s *InMemoryTenantStore) List(ctx context.Context, filter *types.TenantFilter) ([]*tenant.Tenant, error) {
	return s.InMemoryStore.List(ctx, filter, tenantFilterFn, tenantSortFn)
}

func (s *InMemoryTenantStore) Count(ctx context.Context, filter *types.TenantFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, tenantFilterFn)
}

func (s *InMemoryTenantStore) Update(ctx context.Context, t *tenant.Tenant) error {
	err := s.InMemoryStore.Update(ctx, t.ID, copyTenant(t), tenantConstraints...)
	if ierr.IsNotFound(err) {
		return tenant.NewTenantNotFoundError(t.ID)
	}
	return err
}

// Delete removes the tenant only. The cascade to users and subscriptions
// happens in postgres and is not emulated.
func (s *InMemoryTenantStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return tenant.NewTenantNotFoundError(id)
	}
	return nil
}
