package testutil

import (
	"context"
	"strings"

	"github.com/taktakmenu/platform/internal/domain/user"
)

type InMemoryUserStore struct {
	*InMemoryStore[*user.User]
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		InMemoryStore: NewInMemoryStore[*user.User](),
	}
}

func copyUser(u *user.User) *user.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// uniqueUserEmail mirrors the case-insensitive users_email_key index
var uniqueUserEmail = Constraint[*user.User]{
	Conflicts: func(existing, candidate *user.User) bool { return strings.EqualFold(existing.Email, candidate.Email) },
	Err:       func(u *user.User) error { return user.NewEmailTakenError(u.Email) },
}

func (s *InMemoryUserStore) Create(ctx context.Context, u *user.User) error {
	return s.InMemoryStore.Create(ctx, u.ID, copyUser(u), uniqueUserEmail)
}

func (s *InMemoryUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, user.NewNotFoundError(id)
	}
	return copyUser(u), nil
}

func (s *InMemoryUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := s.find(func(u *user.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, user.NewNotFoundError(email)
	}
	return copyUser(u), nil
}

func (s *InMemoryUserStore) Count(ctx context.Context) (int, error) {
	return s.InMemoryStore.Count(ctx, nil, nil)
}
