package testutil

import (
	"context"

	"github.com/taktakmenu/platform/internal/types"
)

const (
	DefaultTenantID = "tenant_test"
	DefaultUserID   = "user_test"
)

// SetupContext returns a context for a regular user of DefaultTenantID
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetTenantID(ctx, DefaultTenantID)
	ctx = types.SetUserID(ctx, DefaultUserID)
	ctx = types.SetUserRole(ctx, types.UserRoleSuperAdmin)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// SetupAdminContext returns a context for a platform operator
func SetupAdminContext() context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, "user_sysadmin")
	ctx = types.SetUserRole(ctx, types.UserRoleSysAdmin)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
