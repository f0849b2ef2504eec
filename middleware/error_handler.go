// middleware/error_handler.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/neonvault/audit"
	"github.com/dev-mohitbeniwal/neonvault/util"
)

// ErrorHandler is the single place where rejections become responses. The
// first error recorded on the context decides the status. Once the caller's
// identity is known the rejection is audited as ERROR; before that there is
// no actor and nothing is recorded.
func ErrorHandler(auditor audit.Auditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0].Err

		if c.Writer.Written() {
			// a streamed response already went out; only the audit remains
			if identity := util.GetIdentityFromContext(c); identity != nil {
				auditor.Dispatch(util.NewAuditRecord(c, identity, audit.ActionError, c.Writer.Status(), "", ""))
			}
			return
		}

		status := util.RespondWithError(c, err)
		if identity := util.GetIdentityFromContext(c); identity != nil {
			auditor.Dispatch(util.NewAuditRecord(c, identity, audit.ActionError, status, "", ""))
		}
	}
}
