package middleware

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/rbac"
	"github.com/taktakmenu/platform/internal/types"
)

// PermissionMiddleware handles RBAC permission checks
type PermissionMiddleware struct {
	rbacService *rbac.RBACService
	logger      *logger.Logger
}

func NewPermissionMiddleware(rbacService *rbac.RBACService, logger *logger.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{
		rbacService: rbacService,
		logger:      logger,
	}
}

// RequirePermission checks the caller's role for entity.action. It must run
// after AuthenticateMiddleware.
func (pm *PermissionMiddleware) RequirePermission(entity string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		role := types.GetUserRole(ctx)

		if !pm.rbacService.HasPermission(role, entity, action) {
			pm.logger.Infow("permission denied",
				"user_id", types.GetUserID(ctx),
				"role", role,
				"entity", entity,
				"action", action,
				"path", c.Request.URL.Path,
			)

			_ = c.Error(ierr.NewError("permission denied").
				WithHintf("Insufficient permissions to %s %s", action, entity).
				WithReportableDetails(map[string]any{
					"entity": entity,
					"action": action,
				}).
				Mark(ierr.ErrPermissionDenied))
			c.Abort()
			return
		}

		c.Next()
	}
}
