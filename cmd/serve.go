package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/neonvault/audit"
	"github.com/dev-mohitbeniwal/neonvault/auth"
	"github.com/dev-mohitbeniwal/neonvault/config"
	"github.com/dev-mohitbeniwal/neonvault/controller"
	"github.com/dev-mohitbeniwal/neonvault/dao"
	"github.com/dev-mohitbeniwal/neonvault/db"
	logger "github.com/dev-mohitbeniwal/neonvault/logging"
	"github.com/dev-mohitbeniwal/neonvault/router"
	"github.com/dev-mohitbeniwal/neonvault/service"
	"github.com/dev-mohitbeniwal/neonvault/storage"
	"github.com/dev-mohitbeniwal/neonvault/util"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gate HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(config.GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newAuditRepository(cfg config.AuditConfiguration, pg *db.Postgres) (audit.Repository, error) {
	switch cfg.Sink {
	case "elasticsearch":
		return audit.NewElasticsearchRepository(cfg.Elasticsearch.URL, cfg.Elasticsearch.Index)
	default:
		return audit.NewPostgresRepository(pg.DB), nil
	}
}

func serve(cfg *config.Configuration) error {
	// Initialize Redis
	if err := db.InitRedis(cfg.Redis); err != nil {
		return err
	}
	defer db.CloseRedis()
	kv := db.NewRedisStore(db.RedisClient)

	// Initialize Postgres
	pg, err := db.ConnectPostgres(cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pg.Close()

	backend, err := storage.NewBackend(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	auditRepository, err := newAuditRepository(cfg.Audit, pg)
	if err != nil {
		return fmt.Errorf("failed to initialize audit sink: %w", err)
	}
	dispatcher := audit.NewDispatcher(audit.NewService(auditRepository), cfg.Audit.Workers, cfg.Audit.QueueSize, cfg.Audit.WriteTimeout)

	// Access verification
	keySets := auth.NewKeySetCache(kv, &http.Client{Timeout: cfg.Access.FetchTimeout}, cfg.Access.KeySetTTL)
	authenticator := auth.NewAuthenticator(keySets, auth.NewVerifier(cfg.Access.StrictKeyID), cfg.Access.TeamDomain, cfg.Access.Aud)
	limiter := util.NewRateLimiter(kv, cfg.RateLimit)

	// Initialize services
	objectService := service.NewObjectService(
		backend,
		dao.NewObjectDAO(pg.DB),
		util.NewCacheService(kv, cfg.MetadataTTL()),
		util.NewValidationUtil(),
	)

	controllers := controller.InitializeControllers(cfg.Environment, objectService, dispatcher)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.SetupRouter(controllers, router.Gate{
		Authenticator: authenticator,
		TokenHeader:   cfg.Access.Header,
		Limiter:       limiter,
		Auditor:       dispatcher,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router.TrimTrailingSlash(engine),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// in-flight audit records are written before the stores close
	if err := dispatcher.Close(); err != nil {
		logger.Error("Audit dispatcher did not drain", zap.Error(err))
	}

	logger.Info("Server exiting")
	return nil
}
