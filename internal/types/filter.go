package types

import (
	"github.com/samber/lo"
	ierr "github.com/taktakmenu/platform/internal/errors"
)

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_DEFAULT_SORT  = "created_at"
	FILTER_DEFAULT_ORDER = "desc"

	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// QueryFilter represents a generic query filter with optional fields
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int    `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
	Sort   *string `json:"sort,omitempty" form:"sort"`
	Order  *string `json:"order,omitempty" form:"order" validate:"omitempty,oneof=asc desc"`
}

// NewDefaultQueryFilter defines default values for query filters
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FILTER_DEFAULT_LIMIT),
		Offset: lo.ToPtr(0),
		Sort:   lo.ToPtr(FILTER_DEFAULT_SORT),
		Order:  lo.ToPtr(FILTER_DEFAULT_ORDER),
	}
}

// NewNoLimitQueryFilter returns a filter with no pagination limits
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Offset: lo.ToPtr(0),
		Sort:   lo.ToPtr(FILTER_DEFAULT_SORT),
		Order:  lo.ToPtr(FILTER_DEFAULT_ORDER),
	}
}

// IsUnlimited returns true if this is an unlimited query
func (f QueryFilter) IsUnlimited() bool {
	return f.Limit == nil
}

// GetLimit returns the limit value, zero meaning no limit
func (f QueryFilter) GetLimit() int {
	if f.Limit == nil {
		return 0
	}
	return *f.Limit
}

// GetOffset returns the offset value or default if not set
func (f QueryFilter) GetOffset() int {
	if f.Offset == nil {
		return 0
	}
	return *f.Offset
}

// GetSort returns the sort value or default if not set
func (f QueryFilter) GetSort() string {
	if f.Sort == nil || *f.Sort == "" {
		return FILTER_DEFAULT_SORT
	}
	return *f.Sort
}

// GetOrder returns the order value or default if not set
func (f QueryFilter) GetOrder() string {
	if f.Order == nil || *f.Order == "" {
		return FILTER_DEFAULT_ORDER
	}
	return *f.Order
}

// Validate checks pagination bounds and that the sort column is one of sortable.
// Sort columns end up in SQL text so anything outside the list is rejected.
func (f QueryFilter) Validate(sortable []string) error {
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > 1000) {
		return ierr.NewError("limit out of range").
			WithHint("Limit must be between 1 and 1000").
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("negative offset").
			WithHint("Offset must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	if order := f.GetOrder(); order != OrderAsc && order != OrderDesc {
		return ierr.NewError("invalid order").
			WithHint("Order must be asc or desc").
			Mark(ierr.ErrValidation)
	}
	if !lo.Contains(sortable, f.GetSort()) {
		return ierr.NewError("invalid sort field").
			WithHintf("Sort must be one of %v", sortable).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TenantFilter narrows tenant listings
type TenantFilter struct {
	*QueryFilter
	Subdomain string `json:"subdomain,omitempty" form:"subdomain"`
}

// NewTenantFilter returns a tenant filter with default pagination
func NewTenantFilter() *TenantFilter {
	return &TenantFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *TenantFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.QueryFilter == nil {
		f.QueryFilter = NewDefaultQueryFilter()
	}
	return f.QueryFilter.Validate(TenantSortFields)
}

// TenantSortFields are the columns a tenant listing may be ordered by
var TenantSortFields = []string{"created_at", "updated_at", "name", "subdomain"}
