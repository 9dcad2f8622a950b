package subscription

import (
	"context"
	"time"
)

// Repository defines the interface for subscription persistence operations
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Get(ctx context.Context, id string) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error

	// ExpireActive moves every active subscription of the tenant to expired,
	// skipping exceptID when it is not empty. When endDate is set the expired
	// rows also get it as their end date. It returns the number of rows changed.
	ExpireActive(ctx context.Context, tenantID, exceptID string, endDate *time.Time) (int64, error)

	// GetActive returns the tenant's active subscription or nil when there is none
	GetActive(ctx context.Context, tenantID string) (*Subscription, error)

	// ListByTenant returns the tenant's subscriptions, most recently created first
	ListByTenant(ctx context.Context, tenantID string) ([]*Subscription, error)

	// CountByPlan counts subscriptions in any status referencing the plan
	CountByPlan(ctx context.Context, planID string) (int, error)
}
