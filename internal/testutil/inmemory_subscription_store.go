package testutil

import (
	"context"
	"time"

	"github.com/taktakmenu/platform/internal/domain/subscription"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

// InMemorySubscriptionStore implements subscription.Repository. Like the
// partial unique index in postgres it refuses a second active subscription
// for the same tenant.
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
	}
}

func copySubscription(sub *subscription.Subscription) *subscription.Subscription {
	if sub == nil {
		return nil
	}
	c := *sub
	return &c
}

// oneActivePerTenant mirrors subscriptions_one_active_per_tenant
var oneActivePerTenant = Constraint[*subscription.Subscription]{
	Conflicts: func(existing, candidate *subscription.Subscription) bool {
		return candidate.IsActive() && existing.IsActive() && existing.TenantID == candidate.TenantID
	},
	Err: func(sub *subscription.Subscription) error {
		return subscription.NewActivationConflictError(sub.TenantID)
	},
}

func (s *InMemorySubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	return s.InMemoryStore.Create(ctx, sub.ID, copySubscription(sub), oneActivePerTenant)
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	sub, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, subscription.NewNotFoundError(id)
	}
	return copySubscription(sub), nil
}

func (s *InMemorySubscriptionStore) Update(ctx context.Context, sub *subscription.Subscription) error {
	err := s.InMemoryStore.Update(ctx, sub.ID, copySubscription(sub), oneActivePerTenant)
	if ierr.IsNotFound(err) {
		return subscription.NewNotFoundError(sub.ID)
	}
	return err
}

func (s *InMemorySubscriptionStore) ExpireActive(ctx context.Context, tenantID, exceptID string, endDate *time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	var changed int64
	for id, sub := range s.items {
		if sub.TenantID != tenantID || !sub.IsActive() || id == exceptID {
			continue
		}
		updated := copySubscription(sub)
		updated.Status = types.SubscriptionStatusExpired
		updated.UpdatedAt = now
		if endDate != nil {
			updated.EndDate = *endDate
		}
		s.items[id] = updated
		changed++
	}
	return changed, nil
}

func (s *InMemorySubscriptionStore) GetActive(ctx context.Context, tenantID string) (*subscription.Subscription, error) {
	sub, ok := s.find(func(e *subscription.Subscription) bool {
		return e.TenantID == tenantID && e.IsActive()
	})
	if !ok {
		return nil, nil
	}
	return copySubscription(sub), nil
}

func (s *InMemorySubscriptionStore) ListByTenant(ctx context.Context, tenantID string) ([]*subscription.Subscription, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(_ context.Context, e *subscription.Subscription, _ interface{}) bool {
			return e.TenantID == tenantID
		},
		func(i, j *subscription.Subscription) bool {
			if i.CreatedAt.Equal(j.CreatedAt) {
				return i.ID > j.ID
			}
			return i.CreatedAt.After(j.CreatedAt)
		},
	)
}

func (s *InMemorySubscriptionStore) CountByPlan(ctx context.Context, planID string) (int, error) {
	return s.InMemoryStore.Count(ctx, nil, func(_ context.Context, e *subscription.Subscription, _ interface{}) bool {
		return e.PlanID == planID
	})
}

// All returns every stored subscription, for assertions
func (s *InMemorySubscriptionStore) All() []*subscription.Subscription {
	subs, _ := s.InMemoryStore.List(context.Background(), nil, nil, nil)
	return subs
}
