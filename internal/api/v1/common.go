package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

func invalidRequest(c *gin.Context, err error) {
	_ = c.Error(ierr.WithError(err).
		WithHint("Invalid request format").
		Mark(ierr.ErrValidation))
}

// withDefaultPage fills in pagination a query string left out
func withDefaultPage(f *types.QueryFilter) *types.QueryFilter {
	if f == nil {
		return types.NewDefaultQueryFilter()
	}
	if f.Limit == nil {
		f.Limit = lo.ToPtr(types.FILTER_DEFAULT_LIMIT)
	}
	return f
}
