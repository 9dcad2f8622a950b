package subscription

import (
	"time"

	"github.com/taktakmenu/platform/internal/types"
)

// Subscription binds a tenant to a plan for one billing period
type Subscription struct {
	ID        string                   `db:"id" json:"id"`
	TenantID  string                   `db:"tenant_id" json:"tenant_id"`
	PlanID    string                   `db:"plan_id" json:"plan_id"`
	StartDate time.Time                `db:"start_date" json:"start_date"`
	EndDate   time.Time                `db:"end_date" json:"end_date"`
	Status    types.SubscriptionStatus `db:"status" json:"status"`
	CreatedAt time.Time                `db:"created_at" json:"created_at"`
	UpdatedAt time.Time                `db:"updated_at" json:"updated_at"`
}

// IsActive reports the stored status only. An active subscription past its
// end date still reports true; see HasLapsed.
func (s *Subscription) IsActive() bool {
	return s.Status == types.SubscriptionStatusActive
}

// HasLapsed reports whether the end date lies strictly before now
func (s *Subscription) HasLapsed(now time.Time) bool {
	return s.EndDate.Before(now)
}
