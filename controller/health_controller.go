// controller/health_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/neonvault/util"
)

type HealthController struct {
	environment string
}

func NewHealthController(environment string) *HealthController {
	return &HealthController{environment: environment}
}

func (hc *HealthController) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", hc.Health)
}

// Health answers only after the caller has passed the gate.
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "env": hc.environment, "requestId": util.GetRequestID(c)})
}
