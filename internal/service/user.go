package service

import (
	"context"
	"strings"
	"time"

	"github.com/taktakmenu/platform/internal/api/dto"
	"github.com/taktakmenu/platform/internal/domain/user"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/types"
)

// CreateUserParams describes a user to create. TenantID is nil for platform
// operators.
type CreateUserParams struct {
	Email     string
	FullName  string
	Password  string
	Role      types.UserRole
	TenantID  *string
	CreatedBy string
}

type UserService interface {
	CreateUser(ctx context.Context, params CreateUserParams) (*dto.UserResponse, error)
	GetUser(ctx context.Context, id string) (*dto.UserResponse, error)
	// EnsureSystemAdmin creates the configured platform operator when the
	// user table is empty
	EnsureSystemAdmin(ctx context.Context) error
}

type userService struct {
	ServiceParams
}

func NewUserService(params ServiceParams) UserService {
	return &userService{ServiceParams: params}
}

func (s *userService) CreateUser(ctx context.Context, params CreateUserParams) (*dto.UserResponse, error) {
	if err := params.Role.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if _, err := s.UserRepo.GetByEmail(ctx, email); err == nil {
		return nil, user.NewEmailTakenError(email)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	hash, err := s.Hasher.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           types.GenerateUUIDWithPrefix(types.IDPrefixUser),
		Email:        email,
		FullName:     params.FullName,
		PasswordHash: hash,
		Role:         params.Role,
		IsActive:     true,
		TenantID:     params.TenantID,
		CreatedBy:    params.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	return dto.NewUserResponse(u), nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*dto.UserResponse, error) {
	u, err := s.UserRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(u), nil
}

func (s *userService) EnsureSystemAdmin(ctx context.Context) error {
	seed := s.Config.Auth.SeedAdmin
	if !seed.Enabled {
		return nil
	}
	if s.Config.Deployment.Mode == types.ModeProduction {
		s.Logger.Warnw("admin seeding is ignored in production mode")
		return nil
	}

	count, err := s.UserRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.Logger.Debugw("users exist, skipping admin seeding", "count", count)
		return nil
	}

	fullName := seed.FullName
	if fullName == "" {
		fullName = "System Administrator"
	}

	admin, err := s.CreateUser(ctx, CreateUserParams{
		Email:     seed.Email,
		FullName:  fullName,
		Password:  seed.Password,
		Role:      types.UserRoleSysAdmin,
		CreatedBy: "system",
	})
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to seed system administrator").
			Mark(ierr.ErrSystem)
	}

	s.Logger.Infow("seeded system administrator", "user_id", admin.ID, "email", admin.Email)
	return nil
}
