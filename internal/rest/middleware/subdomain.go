package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taktakmenu/platform/internal/types"
)

// SubdomainMiddleware records the tenant subdomain a request is addressed to.
// The X-Tenant-Subdomain header wins; otherwise the first label of a host
// with more than two labels is used.
func SubdomainMiddleware(c *gin.Context) {
	if subdomain := ExtractSubdomain(c.GetHeader(types.HeaderTenantSubdomain), c.Request.Host); subdomain != "" {
		c.Request = c.Request.WithContext(types.SetSubdomain(c.Request.Context(), subdomain))
	}
	c.Next()
}

func ExtractSubdomain(header, host string) string {
	if header = strings.TrimSpace(header); header != "" {
		return strings.ToLower(header)
	}

	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}
	if net.ParseIP(hostname) != nil {
		return ""
	}

	labels := strings.Split(hostname, ".")
	if len(labels) > 2 {
		return strings.ToLower(labels[0])
	}
	return ""
}
