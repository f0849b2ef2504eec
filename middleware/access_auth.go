// middleware/access_auth.go
package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	"github.com/dev-mohitbeniwal/neonvault/model"
	"github.com/dev-mohitbeniwal/neonvault/util"
)

// Authenticator verifies a raw access assertion.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*model.Identity, error)
}

// AccessAuth requires a valid assertion in header and stores the verified
// identity on the context.
func AccessAuth(authenticator Authenticator, header string) gin.HandlerFunc {
	missing := vault_errors.WithMessage(vault_errors.ErrUnauthenticated, fmt.Sprintf("Missing Access token (%s)", header))

	return func(c *gin.Context) {
		raw := c.GetHeader(header)
		if raw == "" {
			_ = c.Error(missing)
			c.Abort()
			return
		}

		identity, err := authenticator.Authenticate(c.Request.Context(), raw)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(util.IdentityKey, identity)
		c.Next()
	}
}
