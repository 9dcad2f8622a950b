package dto

import (
	"strings"
	"time"

	"github.com/taktakmenu/platform/internal/types"
	"github.com/taktakmenu/platform/internal/validator"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.ValidateRequest(r)
}

type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	UserID    string         `json:"user_id"`
	TenantID  string         `json:"tenant_id,omitempty"`
	Role      types.UserRole `json:"role"`
}
