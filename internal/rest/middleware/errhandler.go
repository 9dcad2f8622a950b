package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	ierr "github.com/taktakmenu/platform/internal/errors"
	"github.com/taktakmenu/platform/internal/logger"
	"github.com/taktakmenu/platform/internal/sentry"
	"github.com/taktakmenu/platform/internal/types"
)

const internalErrorMessage = "An unexpected error occurred"

// ErrorHandler renders the last error attached to the gin context. Server
// side failures are logged, reported to sentry and answered with an opaque
// message.
func ErrorHandler(logger *logger.Logger, sentrySvc *sentry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)

		response := ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Display: getDisplayMessage(err),
				Details: getSafeDetails(err),
			},
		}

		if status >= http.StatusInternalServerError {
			logger.Errorw("request failed",
				"error", err,
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"request_id", types.GetRequestID(c.Request.Context()),
			)
			sentrySvc.CaptureException(c.Request.Context(), err)
			response.Error = ierr.ErrorDetail{Display: internalErrorMessage}
		}

		c.JSON(status, response)
	}
}

func getDisplayMessage(err error) string {
	// GetAllHints is a post-order traversal, the outermost hint comes first
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return internalErrorMessage
}

func getSafeDetails(err error) map[string]any {
	details := make(map[string]any)

	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			jsonStr, ok := strings.CutPrefix(payload, "__json__:")
			if !ok {
				continue
			}
			var jsonDetails map[string]any
			if err := json.Unmarshal([]byte(jsonStr), &jsonDetails); err == nil {
				for k, v := range jsonDetails {
					details[k] = v
				}
			}
		}
	}

	if len(details) == 0 {
		return nil
	}
	return details
}
