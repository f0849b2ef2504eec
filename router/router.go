// router/router.go

package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/neonvault/audit"
	"github.com/dev-mohitbeniwal/neonvault/controller"
	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	"github.com/dev-mohitbeniwal/neonvault/middleware"
)

// Gate holds what the middleware chain needs in front of every route.
type Gate struct {
	Authenticator middleware.Authenticator
	TokenHeader   string
	Limiter       middleware.Admitter
	Auditor       audit.Auditor
}

// SetupRouter builds the engine. Every request, unknown routes included, is
// authenticated and rate limited before it reaches a handler.
func SetupRouter(controllers *controller.Controllers, gate Gate) *gin.Engine {
	router := gin.New()
	// a redirect would answer before the gate runs
	router.RedirectTrailingSlash = false
	router.Use(middleware.RequestContext())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler(gate.Auditor))
	router.Use(middleware.Recovery())
	router.Use(middleware.AccessAuth(gate.Authenticator, gate.TokenHeader))
	router.Use(middleware.RateLimiter(gate.Limiter))

	controllers.Health.RegisterRoutes(router)
	controllers.Object.RegisterRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(vault_errors.ErrRouteNotFound)
		c.Abort()
	})

	return router
}

// TrimTrailingSlash routes "/v1/objects/" like "/v1/objects" so path
// variants reach the same handlers behind the gate.
func TrimTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			r.URL.Path = strings.TrimRight(p, "/")
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
			r.URL.RawPath = strings.TrimRight(r.URL.RawPath, "/")
		}
		next.ServeHTTP(w, r)
	})
}
