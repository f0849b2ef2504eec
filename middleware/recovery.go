// middleware/recovery.go
package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	logger "github.com/dev-mohitbeniwal/neonvault/logging"
)

// Recovery turns a panic further down the chain into an internal error so
// the error handler still answers with the standard envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Recovered from panic",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"))
				_ = c.Error(fmt.Errorf("%w: panic: %v", vault_errors.ErrInternal, r))
				c.Abort()
			}
		}()
		c.Next()
	}
}
