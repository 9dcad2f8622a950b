package types

import (
	"github.com/samber/lo"
	ierr "github.com/taktakmenu/platform/internal/errors"
)

// SubscriptionStatus is the lifecycle state of a tenant subscription.
// Only active and expired are produced by the ledger itself; canceled comes from
// an explicit disable and the remaining values are stored but never acted on.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusPending  SubscriptionStatus = "pending"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusUnpaid   SubscriptionStatus = "unpaid"
)

var SubscriptionStatusValues = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusExpired,
	SubscriptionStatusCanceled,
	SubscriptionStatusPending,
	SubscriptionStatusTrialing,
	SubscriptionStatusUnpaid,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) Validate() error {
	if !lo.Contains(SubscriptionStatusValues, s) {
		return ierr.NewError("invalid subscription status").
			WithHint("Invalid subscription status").
			WithReportableDetails(map[string]any{
				"status":         s,
				"allowed_status": SubscriptionStatusValues,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
