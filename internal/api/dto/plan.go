package dto

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/taktakmenu/platform/internal/domain/plan"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
	"github.com/taktakmenu/platform/internal/validator"
)

type CreatePlanRequest struct {
	Name               string                  `json:"name" validate:"required,max=255"`
	Description        string                  `json:"description"`
	Price              decimal.Decimal         `json:"price"`
	Currency           string                  `json:"currency" validate:"omitempty,len=3"`
	BillingPeriodUnit  types.BillingPeriodUnit `json:"billing_period_unit"`
	BillingPeriodValue int                     `json:"billing_period_value" validate:"omitempty,min=1"`
	Features           []string                `json:"features" validate:"required,min=1,dive,required"`
	IsPopular          bool                    `json:"is_popular"`
}

func (r *CreatePlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := validatePrice(r.Price); err != nil {
		return err
	}
	if r.BillingPeriodUnit != "" {
		if err := r.BillingPeriodUnit.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToPlan applies catalog defaults: USD, monthly, one unit
func (r *CreatePlanRequest) ToPlan(_ context.Context) *plan.Plan {
	now := time.Now().UTC()
	return &plan.Plan{
		ID:                 types.GenerateUUIDWithPrefix(types.IDPrefixPlan),
		Name:               strings.TrimSpace(r.Name),
		Description:        r.Description,
		Price:              r.Price.Round(2),
		Currency:           lo.Ternary(r.Currency == "", types.DefaultCurrency, strings.ToUpper(r.Currency)),
		BillingPeriodUnit:  lo.Ternary(r.BillingPeriodUnit == "", types.BillingPeriodUnitMonth, r.BillingPeriodUnit),
		BillingPeriodValue: lo.Ternary(r.BillingPeriodValue == 0, types.DefaultBillingPeriodValue, r.BillingPeriodValue),
		Features:           r.Features,
		IsPopular:          r.IsPopular,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

type UpdatePlanRequest struct {
	Name               *string                  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description        *string                  `json:"description,omitempty"`
	Price              *decimal.Decimal         `json:"price,omitempty"`
	Currency           *string                  `json:"currency,omitempty" validate:"omitempty,len=3"`
	BillingPeriodUnit  *types.BillingPeriodUnit `json:"billing_period_unit,omitempty"`
	BillingPeriodValue *int                     `json:"billing_period_value,omitempty" validate:"omitempty,min=1"`
	Features           []string                 `json:"features,omitempty" validate:"omitempty,min=1,dive,required"`
	IsPopular          *bool                    `json:"is_popular,omitempty"`
}

func (r *UpdatePlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Price != nil {
		if err := validatePrice(*r.Price); err != nil {
			return err
		}
	}
	if r.BillingPeriodUnit != nil {
		if err := r.BillingPeriodUnit.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ChangesBillingTerms reports whether the request touches fields that decide
// what existing subscribers pay or how long their periods last
func (r *UpdatePlanRequest) ChangesBillingTerms(p *plan.Plan) bool {
	return (r.Price != nil && !r.Price.Equal(p.Price)) ||
		(r.Currency != nil && !strings.EqualFold(*r.Currency, p.Currency)) ||
		(r.BillingPeriodUnit != nil && *r.BillingPeriodUnit != p.BillingPeriodUnit) ||
		(r.BillingPeriodValue != nil && *r.BillingPeriodValue != p.BillingPeriodValue)
}

// Apply copies the set fields onto p
func (r *UpdatePlanRequest) Apply(p *plan.Plan) {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Price != nil {
		p.Price = r.Price.Round(2)
	}
	if r.Currency != nil {
		p.Currency = strings.ToUpper(*r.Currency)
	}
	if r.BillingPeriodUnit != nil {
		p.BillingPeriodUnit = *r.BillingPeriodUnit
	}
	if r.BillingPeriodValue != nil {
		p.BillingPeriodValue = *r.BillingPeriodValue
	}
	if r.Features != nil {
		p.Features = r.Features
	}
	if r.IsPopular != nil {
		p.IsPopular = *r.IsPopular
	}
	p.UpdatedAt = time.Now().UTC()
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ierr.NewError("negative price").
			WithHint("Price cannot be negative").
			Mark(ierr.ErrValidation)
	}
	if !price.Equal(price.Round(2)) {
		return ierr.NewError("price precision").
			WithHint("Price can have at most two decimal places").
			WithReportableDetails(map[string]any{"price": price.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type PlanResponse struct {
	*plan.Plan
}

func NewPlanResponse(p *plan.Plan) *PlanResponse {
	if p == nil {
		return nil
	}
	return &PlanResponse{Plan: p}
}

// ListPlansResponse represents the response for listing plans
type ListPlansResponse = types.ListResponse[*PlanResponse]

type PlanStatisticsResponse struct {
	*plan.Statistics
}
