package types

import (
	"github.com/samber/lo"
	ierr "github.com/taktakmenu/platform/internal/errors"
)

// UserRole is the authorization role carried by a user and its tokens
type UserRole string

const (
	UserRoleUser       UserRole = "USER"
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleManager    UserRole = "MANAGER"
	UserRoleSuperAdmin UserRole = "SUPER_ADMIN"
	UserRoleSupport    UserRole = "SUPPORT"
	// UserRoleSysAdmin is the platform operator role. It is the only role
	// allowed to act across tenants.
	UserRoleSysAdmin UserRole = "SYS_ADMIN"
)

var UserRoleValues = []UserRole{
	UserRoleUser,
	UserRoleAdmin,
	UserRoleManager,
	UserRoleSuperAdmin,
	UserRoleSupport,
	UserRoleSysAdmin,
}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) Validate() error {
	if !lo.Contains(UserRoleValues, r) {
		return ierr.NewError("invalid user role").
			WithHint("Invalid user role").
			WithReportableDetails(map[string]any{
				"role":          r,
				"allowed_roles": UserRoleValues,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsPlatformOperator reports whether the role may act across tenants
func (r UserRole) IsPlatformOperator() bool {
	return r == UserRoleSysAdmin
}
