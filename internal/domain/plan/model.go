package plan

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/taktakmenu/platform/internal/types"
)

// Plan is a priced, periodic offering a tenant can subscribe to
type Plan struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	Description        string                  `json:"description"`
	Price              decimal.Decimal         `json:"price"`
	Currency           string                  `json:"currency"`
	BillingPeriodUnit  types.BillingPeriodUnit `json:"billing_period_unit"`
	BillingPeriodValue int                     `json:"billing_period_value"`
	Features           []string                `json:"features"`
	IsPopular          bool                    `json:"is_popular"`
	IsArchived         bool                    `json:"is_archived"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// PeriodEnd returns the end of one billing period of this plan starting at start
func (p *Plan) PeriodEnd(start time.Time, accelerated bool) (time.Time, error) {
	return types.PeriodEnd(start, p.BillingPeriodUnit, p.BillingPeriodValue, accelerated)
}

// Statistics summarises the sellable part of the catalog
type Statistics struct {
	TotalPlans      int             `json:"total_plans"`
	AveragePrice    decimal.Decimal `json:"average_price"`
	MostPopularPlan *string         `json:"most_popular_plan"`
}
