package plan

import (
	"context"

	"github.com/taktakmenu/platform/internal/types"
)

// Repository defines the interface for plan persistence operations
type Repository interface {
	Create(ctx context.Context, plan *Plan) error
	Get(ctx context.Context, id string) (*Plan, error)
	GetByName(ctx context.Context, name string) (*Plan, error)
	List(ctx context.Context, filter *types.PlanFilter) ([]*Plan, error)
	Count(ctx context.Context, filter *types.PlanFilter) (int, error)
	// ListPublic returns plans ordered by ascending price
	ListPublic(ctx context.Context, includeArchived bool) ([]*Plan, error)
	Update(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, id string) error
}
