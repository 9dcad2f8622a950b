package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taktakmenu/platform/internal/auth"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/types"
)

// AuthenticateMiddleware requires a Bearer JWT in the Authorization header and
// puts the caller's user ID, tenant ID and role in the request context
func AuthenticateMiddleware(tokens auth.TokenProvider, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if authHeader == "" {
			abortUnauthorized(c, "Unauthorized")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logger.Debugw("failed to validate token", "error", err)
			_ = c.Error(err)
			c.Abort()
			return
		}

		if claims.UserID == "" {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthenticateMiddleware sets the caller identity when a valid token
// is present and lets anonymous requests through otherwise
func OptionalAuthenticateMiddleware(tokens auth.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(types.HeaderAuthorization)
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			if claims, err := tokens.ValidateToken(token); err == nil && claims.UserID != "" {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	ctx := c.Request.Context()
	ctx = types.SetUserID(ctx, claims.UserID)
	ctx = types.SetUserRole(ctx, claims.Role)
	if claims.TenantID != "" {
		ctx = types.SetTenantID(ctx, claims.TenantID)
	}
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, hint string) {
	_ = c.Error(ierr.NewError("unauthorized").
		WithHint(hint).
		Mark(ierr.ErrUnauthorized))
	c.Abort()
}
