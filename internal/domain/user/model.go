package user

import (
	"time"

	"github.com/taktakmenu/platform/internal/types"
)

// User is a person able to sign in. Platform operators have no tenant.
type User struct {
	ID           string         `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	FullName     string         `db:"full_name" json:"full_name"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         types.UserRole `db:"role" json:"role"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	TenantID     *string        `db:"tenant_id" json:"tenant_id,omitempty"`
	CreatedBy    string         `db:"created_by" json:"created_by"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// BelongsTo reports whether the user is bound to tenantID
func (u *User) BelongsTo(tenantID string) bool {
	return u.TenantID != nil && *u.TenantID == tenantID
}
