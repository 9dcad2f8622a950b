package tenant

import (
	"context"

	"github.com/taktakmenu/platform/internal/types"
)

type Repository interface {
	Create(ctx context.Context, tenant *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
	GetByEmail(ctx context.Context, email string) (*Tenant, error)
	List(ctx context.Context, filter *types.TenantFilter) ([]*Tenant, error)
	Count(ctx context.Context, filter *types.TenantFilter) (int, error)
	Update(ctx context.Context, tenant *Tenant) error
	Delete(ctx context.Context, id string) error
}
