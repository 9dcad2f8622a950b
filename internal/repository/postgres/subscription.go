package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/taktakmenu/platform/internal/domain/subscription"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/postgres"
	"github.com/taktakmenu/platform/internal/types"
)

const (
	subscriptionColumns = `id, tenant_id, plan_id, start_date, end_date, status, created_at, updated_at`

	// partial unique index enforcing one active subscription per tenant
	oneActivePerTenantIndex = "subscriptions_one_active_per_tenant"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `INSERT INTO subscriptions (` + subscriptionColumns + `) VALUES (
		:id, :tenant_id, :plan_id, :start_date, :end_date, :status, :created_at, :updated_at)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, sub); err != nil {
		return r.writeError(err, sub.TenantID, "failed to create subscription")
	}
	return nil
}

func (r *subscriptionRepository) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	err := r.db.GetQuerier(ctx).GetContext(ctx, &sub,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, subscription.NewNotFoundError(id)
		}
		return nil, databaseError(err, "failed to get subscription")
	}
	return &sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	query := `UPDATE subscriptions SET
		plan_id = :plan_id,
		start_date = :start_date,
		end_date = :end_date,
		status = :status,
		updated_at = :updated_at
	WHERE id = :id`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, sub)
	if err != nil {
		return r.writeError(err, sub.TenantID, "failed to update subscription")
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return subscription.NewNotFoundError(sub.ID)
	}
	return nil
}

func (r *subscriptionRepository) ExpireActive(ctx context.Context, tenantID, exceptID string, endDate *time.Time) (int64, error) {
	args := []interface{}{types.SubscriptionStatusExpired, time.Now().UTC(), tenantID, types.SubscriptionStatusActive}
	query := `UPDATE subscriptions SET status = $1, updated_at = $2`
	if endDate != nil {
		args = append(args, *endDate)
		query += fmt.Sprintf(`, end_date = $%d`, len(args))
	}
	query += ` WHERE tenant_id = $3 AND status = $4`
	if exceptID != "" {
		args = append(args, exceptID)
		query += fmt.Sprintf(` AND id <> $%d`, len(args))
	}

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, databaseError(err, "failed to expire active subscriptions")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, databaseError(err, "failed to read expired subscription count")
	}

	r.logger.Debugw("expired active subscriptions",
		"tenant_id", tenantID,
		"except_id", exceptID,
		"count", n,
	)
	return n, nil
}

func (r *subscriptionRepository) GetActive(ctx context.Context, tenantID string) (*subscription.Subscription, error) {
	var subs []*subscription.Subscription
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &subs,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at DESC LIMIT 1`,
		tenantID, types.SubscriptionStatusActive)
	if err != nil {
		return nil, databaseError(err, "failed to get active subscription")
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return subs[0], nil
}

func (r *subscriptionRepository) ListByTenant(ctx context.Context, tenantID string) ([]*subscription.Subscription, error) {
	subs := []*subscription.Subscription{}
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &subs,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID)
	if err != nil {
		return nil, databaseError(err, "failed to list subscriptions")
	}
	return subs, nil
}

func (r *subscriptionRepository) CountByPlan(ctx context.Context, planID string) (int, error) {
	var count int
	err := r.db.GetQuerier(ctx).GetContext(ctx, &count,
		`SELECT COUNT(*) FROM subscriptions WHERE plan_id = $1`, planID)
	if err != nil {
		return 0, databaseError(err, "failed to count subscriptions for plan")
	}
	return count, nil
}

func (r *subscriptionRepository) writeError(err error, tenantID, op string) error {
	if constraint, ok := constraintOf(err); ok && constraint == oneActivePerTenantIndex {
		r.logger.Warnw("lost race activating subscription", "tenant_id", tenantID)
		return subscription.NewActivationConflictError(tenantID)
	}
	return databaseError(err, op)
}
