package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/taktakmenu/platform/internal/api/dto"
	ierr "github.com/taktakmenu/platform/internal/errors"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	ServiceParams
}

func NewAuthService(params ServiceParams) AuthService {
	return &authService{ServiceParams: params}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	invalid := ierr.NewError("invalid credentials").
		WithHint("Invalid email or password").
		Mark(ierr.ErrUnauthorized)

	u, err := s.UserRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, invalid
		}
		return nil, err
	}

	if !s.Hasher.Verify(u.PasswordHash, req.Password) {
		return nil, invalid
	}

	if !u.IsActive {
		return nil, ierr.NewError("user is inactive").
			WithHint("Your account has been deactivated").
			Mark(ierr.ErrPermissionDenied)
	}

	tenantID := lo.FromPtr(u.TenantID)
	token, expiresAt, err := s.TokenProvider.GenerateToken(u.ID, tenantID, u.Role)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("user logged in", "user_id", u.ID, "tenant_id", tenantID)
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    u.ID,
		TenantID:  tenantID,
		Role:      u.Role,
	}, nil
}
