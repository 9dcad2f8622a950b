package subscription

import (
	ierr "github.com/taktakmenu/platform/internal/errors"
)

func NewNotFoundError(id string) error {
	return ierr.NewError("subscription not found").
		WithHintf("Subscription %s was not found", id).
		WithReportableDetails(map[string]any{"subscription_id": id}).
		Mark(ierr.ErrNotFound)
}

// NewActivationConflictError is returned when another activation for the same
// tenant committed first
func NewActivationConflictError(tenantID string) error {
	return ierr.NewError("concurrent activation").
		WithHint("Another subscription change for this tenant is in progress, please retry").
		WithTenant(tenantID).
		Mark(ierr.ErrConflict)
}
