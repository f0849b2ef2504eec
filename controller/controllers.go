// controller/controllers.go
package controller

import (
	"github.com/dev-mohitbeniwal/neonvault/audit"
	"github.com/dev-mohitbeniwal/neonvault/service"
)

type Controllers struct {
	Health *HealthController
	Object *ObjectController
}

func InitializeControllers(environment string, objectService service.IObjectService, auditor audit.Auditor) *Controllers {
	return &Controllers{
		Health: NewHealthController(environment),
		Object: NewObjectController(objectService, auditor),
	}
}
