package dto

import (
	"time"

	"github.com/taktakmenu/platform/internal/domain/subscription"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
	"github.com/taktakmenu/platform/internal/validator"
)

// ChangeSubscriptionRequest moves a tenant onto another plan
type ChangeSubscriptionRequest struct {
	TenantID string `json:"tenant_id" validate:"required"`
	PlanID   string `json:"plan_id" validate:"required"`
}

func (r *ChangeSubscriptionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// UpdateSubscriptionRequest is a partial update. Setting status to active
// demotes the tenant's other active subscriptions.
type UpdateSubscriptionRequest struct {
	PlanID  *string                   `json:"plan_id,omitempty" validate:"omitempty,min=1"`
	EndDate *time.Time                `json:"end_date,omitempty"`
	Status  *types.SubscriptionStatus `json:"status,omitempty"`
}

func (r *UpdateSubscriptionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.PlanID == nil && r.EndDate == nil && r.Status == nil {
		return ierr.NewError("empty update").
			WithHint("At least one of plan_id, end_date or status is required").
			Mark(ierr.ErrValidation)
	}
	if r.Status != nil {
		return r.Status.Validate()
	}
	return nil
}

type SubscriptionResponse struct {
	*subscription.Subscription
	Plan *PlanResponse `json:"plan,omitempty"`
}

func NewSubscriptionResponse(sub *subscription.Subscription) *SubscriptionResponse {
	if sub == nil {
		return nil
	}
	return &SubscriptionResponse{Subscription: sub}
}

// ListSubscriptionsResponse is a tenant's subscription history, newest first
type ListSubscriptionsResponse struct {
	Items []*SubscriptionResponse `json:"items"`
}

// ActiveSubscriptionResponse wraps the active subscription, which may be absent
type ActiveSubscriptionResponse struct {
	Subscription *SubscriptionResponse `json:"subscription"`
}
