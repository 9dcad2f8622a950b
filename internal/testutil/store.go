package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/taktakmenu/platform/internal/errors"
)

// FilterFunc is a generic filter function type
type FilterFunc[T any] func(ctx context.Context, item T, filter interface{}) bool

// SortFunc is a generic sort function type
type SortFunc[T any] func(i, j T) bool

// pageable is satisfied by every list filter through its embedded QueryFilter
type pageable interface {
	IsUnlimited() bool
	GetLimit() int
	GetOffset() int
}

// Constraint is a uniqueness rule evaluated under the store lock, the
// in-memory counterpart of a unique index. Conflicts is never called with the
// row being updated.
type Constraint[T any] struct {
	Conflicts func(existing, candidate T) bool
	Err       func(candidate T) error
}

// InMemoryStore implements a generic in-memory store
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewInMemoryStore creates a new InMemoryStore
func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

// Create adds a new item to the store after checking every constraint
func (s *InMemoryStore[T]) Create(ctx context.Context, id string, item T, constraints ...Constraint[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewError("item already exists").Mark(ierr.ErrAlreadyExists)
	}
	if err := s.violation(id, item, constraints); err != nil {
		return err
	}

	s.items[id] = item
	return nil
}

// Get retrieves an item by ID
func (s *InMemoryStore[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, exists := s.items[id]; exists {
		return item, nil
	}

	var zero T
	return zero, ierr.NewError("item not found").Mark(ierr.ErrNotFound)
}

// List retrieves items based on filter
func (s *InMemoryStore[T]) List(ctx context.Context, filter interface{}, filterFn FilterFunc[T], sortFn SortFunc[T]) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []T
	for _, item := range s.items {
		if filterFn == nil || filterFn(ctx, item, filter) {
			result = append(result, item)
		}
	}

	if sortFn != nil {
		sort.Slice(result, func(i, j int) bool {
			return sortFn(result[i], result[j])
		})
	}

	if f, ok := filter.(pageable); ok && !f.IsUnlimited() {
		start := f.GetOffset()
		if start >= len(result) {
			return []T{}, nil
		}

		end := start + f.GetLimit()
		if end > len(result) {
			end = len(result)
		}
		return result[start:end], nil
	}

	return result, nil
}

// Count returns the total number of items matching the filter
func (s *InMemoryStore[T]) Count(ctx context.Context, filter interface{}, filterFn FilterFunc[T]) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		if filterFn == nil || filterFn(ctx, item, filter) {
			count++
		}
	}

	return count, nil
}

// Update replaces an existing item after checking every constraint against
// the other items
func (s *InMemoryStore[T]) Update(ctx context.Context, id string, item T, constraints ...Constraint[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ierr.NewError("item not found").Mark(ierr.ErrNotFound)
	}
	if err := s.violation(id, item, constraints); err != nil {
		return err
	}

	s.items[id] = item
	return nil
}

// violation reports the first constraint item breaks. Callers hold the lock.
func (s *InMemoryStore[T]) violation(id string, item T, constraints []Constraint[T]) error {
	for _, c := range constraints {
		for existingID, existing := range s.items {
			if existingID != id && c.Conflicts(existing, item) {
				return c.Err(item)
			}
		}
	}
	return nil
}

// Delete removes an item from the store
func (s *InMemoryStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ierr.NewError("item not found").Mark(ierr.ErrNotFound)
	}

	delete(s.items, id)
	return nil
}

// Clear removes all items from the store
func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}

// find returns the first item matching fn. Callers must not hold the lock.
func (s *InMemoryStore[T]) find(fn func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if fn(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
