package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taktakmenu/platform/internal/types"
)

// maxRequestIDLength bounds client supplied request IDs before they reach logs
const maxRequestIDLength = 128

// RequestIDMiddleware tags the request with an ID taken from X-Request-ID or
// generated. Malformed client IDs are replaced; the ID is echoed back.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if !validRequestID(requestID) {
		requestID = uuid.NewString()
	}

	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), types.CtxRequestID, requestID))
	c.Header(types.HeaderRequestID, requestID)
	c.Next()
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
