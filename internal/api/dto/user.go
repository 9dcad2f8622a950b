package dto

import (
	"time"

	"github.com/taktakmenu/platform/internal/domain/user"
	"github.com/taktakmenu/platform/internal/types"
)

type UserResponse struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Role      types.UserRole `json:"role"`
	IsActive  bool           `json:"is_active"`
	TenantID  *string        `json:"tenant_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewUserResponse(u *user.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		TenantID:  u.TenantID,
		CreatedAt: u.CreatedAt,
	}
}
