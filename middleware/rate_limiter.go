// middleware/rate_limiter.go

package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	"github.com/dev-mohitbeniwal/neonvault/util"
)

// Admitter counts a request against a subject's budget.
type Admitter interface {
	Admit(ctx context.Context, subject string) (int64, error)
	Limit() int
	Window() time.Duration
}

// RateLimiter admits the verified subject or rejects with 429. It must run
// after AccessAuth.
func RateLimiter(limiter Admitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := util.GetIdentityFromContext(c)
		if identity == nil {
			_ = c.Error(vault_errors.ErrUnauthenticated)
			c.Abort()
			return
		}

		count, err := limiter.Admit(c.Request.Context(), identity.Subject)

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Duration", limiter.Window().String())
		if count > 0 {
			remaining := int64(limiter.Limit()) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}

		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}
