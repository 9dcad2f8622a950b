package testutil

import (
	"context"
	"sort"

	"github.com/taktakmenu/platform/internal/domain/plan"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.Plan]
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.Plan](),
	}
}

func copyPlan(p *plan.Plan) *plan.Plan {
	if p == nil {
		return nil
	}
	c := *p
	c.Features = append([]string(nil), p.Features...)
	return &c
}

func planFilterFn(ctx context.Context, p *plan.Plan, filter interface{}) bool {
	f, ok := filter.(*types.PlanFilter)
	if !ok || f == nil {
		return true
	}
	if f.IsArchived != nil && p.IsArchived != *f.IsArchived {
		return false
	}
	return true
}

func planSortFn(i, j *plan.Plan) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

// uniquePlanName mirrors plans_name_key
var uniquePlanName = Constraint[*plan.Plan]{
	Conflicts: func(existing, candidate *plan.Plan) bool { return existing.Name == candidate.Name },
	Err:       func(p *plan.Plan) error { return plan.NewNameTakenError(p.Name) },
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.Plan) error {
	return s.InMemoryStore.Create(ctx, p.ID, copyPlan(p), uniquePlanName)
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, plan.NewNotFoundError(id)
	}
	return copyPlan(p), nil
}

func (s *InMemoryPlanStore) GetByName(ctx context.Context, name string) (*plan.Plan, error) {
	p, ok := s.find(func(p *plan.Plan) bool { return p.Name == name })
	if !ok {
		return nil, ierr.NewError("plan not found").
			WithHintf("Plan %s was not found", name).
			Mark(ierr.ErrNotFound)
	}
	return copyPlan(p), nil
}

func (s *InMemoryPlanStore) List(ctx context.Context, filter *types.PlanFilter) ([]*plan.Plan, error) {
	return s.InMemoryStore.List(ctx, filter, planFilterFn, planSortFn)
}

func (s *InMemoryPlanStore) Count(ctx context.Context, filter *types.PlanFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, planFilterFn)
}

func (s *InMemoryPlanStore) ListPublic(ctx context.Context, includeArchived bool) ([]*plan.Plan, error) {
	plans, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *plan.Plan, _ interface{}) bool {
		return includeArchived || !p.IsArchived
	}, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].Price.LessThan(plans[j].Price)
	})
	return plans, nil
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.Plan) error {
	err := s.InMemoryStore.Update(ctx, p.ID, copyPlan(p), uniquePlanName)
	if ierr.IsNotFound(err) {
		return plan.NewNotFoundError(p.ID)
	}
	return err
}

func (s *InMemoryPlanStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return plan.NewNotFoundError(id)
	}
	return nil
}
