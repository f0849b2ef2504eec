// middleware/request_context.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dev-mohitbeniwal/neonvault/util"
)

// RequestIDHeader is set by the edge proxy for every request it forwards.
const RequestIDHeader = "Cf-Ray"

// RequestContext stamps the request id and start time used by the error
// envelope and the audit trail.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(util.RequestIDKey, requestID)
		c.Set(util.RequestStartKey, time.Now())
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
