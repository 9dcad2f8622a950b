package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taktakmenu/platform/internal/types"
)

var (
	corsAllowedHeaders = strings.Join([]string{
		types.HeaderAuthorization,
		"Content-Type",
		types.HeaderRequestID,
		types.HeaderTenantSubdomain,
	}, ", ")

	corsExposedHeaders = strings.Join([]string{
		types.HeaderRequestID,
		types.HeaderRateLimitLimit,
		types.HeaderRateLimitRemaining,
		types.HeaderRetryAfter,
	}, ", ")
)

// CORSMiddleware lets restaurant frontends on any origin call the API.
// Preflight requests end here.
func CORSMiddleware(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
	h.Set("Access-Control-Expose-Headers", corsExposedHeaders)
	h.Set("Access-Control-Max-Age", "86400")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
