package types

import (
	"github.com/samber/lo"
	ierr "github.com/taktakmenu/platform/internal/errors"
)

// BillingPeriodUnit is the unit a plan's billing period is measured in
type BillingPeriodUnit string

const (
	BillingPeriodUnitMonth BillingPeriodUnit = "month"
	BillingPeriodUnitYear  BillingPeriodUnit = "year"
)

var BillingPeriodUnitValues = []BillingPeriodUnit{
	BillingPeriodUnitMonth,
	BillingPeriodUnitYear,
}

func (u BillingPeriodUnit) String() string {
	return string(u)
}

func (u BillingPeriodUnit) Validate() error {
	if !lo.Contains(BillingPeriodUnitValues, u) {
		return ierr.NewError("invalid billing period unit").
			WithHint("Billing period unit must be month or year").
			WithReportableDetails(map[string]any{
				"billing_period_unit": u,
				"allowed_values":      BillingPeriodUnitValues,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

const (
	DefaultCurrency           = "USD"
	DefaultBillingPeriodValue = 1
)

// PlanFilter narrows plan listings
type PlanFilter struct {
	*QueryFilter
	IsArchived *bool `json:"is_archived,omitempty" form:"is_archived"`
}

// NewPlanFilter returns a plan filter with default pagination
func NewPlanFilter() *PlanFilter {
	return &PlanFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *PlanFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.QueryFilter == nil {
		f.QueryFilter = NewDefaultQueryFilter()
	}
	return f.QueryFilter.Validate(PlanSortFields)
}

// PlanSortFields are the columns a plan listing may be ordered by
var PlanSortFields = []string{"created_at", "updated_at", "name", "price"}
