package testutil

import (
	"context"
	"time"

	"github.com/taktakmenu/platform/internal/domain/subscription"
	"github.com/taktakmenu/platform/internal/domain/tenant"
	"github.com/taktakmenu/platform/internal/domain/user"
)

// FailingUserStore fails Create with CreateErr when it is set
type FailingUserStore struct {
	user.Repository
	CreateErr error
}

func (s *FailingUserStore) Create(ctx context.Context, u *user.User) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	return s.Repository.Create(ctx, u)
}

// FailingTenantStore fails Delete with DeleteErr when it is set
type FailingTenantStore struct {
	tenant.Repository
	DeleteErr error
}

func (s *FailingTenantStore) Delete(ctx context.Context, id string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	return s.Repository.Delete(ctx, id)
}

// FailingSubscriptionStore fails the write path of the ledger
type FailingSubscriptionStore struct {
	subscription.Repository
	CreateErr error
	ExpireErr error
}

func (s *FailingSubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	return s.Repository.Create(ctx, sub)
}

func (s *FailingSubscriptionStore) ExpireActive(ctx context.Context, tenantID, exceptID string, endDate *time.Time) (int64, error) {
	if s.ExpireErr != nil {
		return 0, s.ExpireErr
	}
	return s.Repository.ExpireActive(ctx, tenantID, exceptID, endDate)
}
