package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloo-solutions/storefront/internal/api/handlers"
	"github.com/cloo-solutions/storefront/internal/api/middleware"
	"github.com/cloo-solutions/storefront/internal/config"
	"github.com/cloo-solutions/storefront/internal/database"
	"github.com/cloo-solutions/storefront/internal/jobs"
	"github.com/cloo-solutions/storefront/internal/metrics"
	"github.com/cloo-solutions/storefront/internal/server"
	"github.com/cloo-solutions/storefront/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the storefront API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides STOREFRONT_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().String("migrations", defaultMigrationsDir, "Directory containing the migration files")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Default to 10% sampling in production, 100% in development
	sampleRate := 0.1
	if cfg.Environment == "development" {
		sampleRate = 1.0
	}
	shutdownTelemetry, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		TracesSampleRate: sampleRate,
		Debug:            cfg.Debug,
		Logger:           logger,
	})
	if err != nil {
		logger.Warn("telemetry init failed, continuing without tracing", zap.Error(err))
	} else {
		defer shutdownTelemetry()
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		dir, _ := cmd.Flags().GetString("migrations")
		applied, err := database.Migrate(cfg.DatabaseURL, dir)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("migrations checked", zap.Bool("applied", applied))
	}

	m := metrics.New()

	a, err := newApp(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer a.Close()

	routerCfg := server.RouterConfig{
		Logger:            logger,
		Metrics:           m,
		SearchHandler:     handlers.NewSearchHandler(a.search),
		StorefrontHandler: handlers.NewStorefrontHandler(a.home, a.catalog, a.messages),
		ContactHandler:    handlers.NewContactHandler(a.contacts, a.messages),
	}
	if cfg.HasAdmin() {
		routerCfg.AuthValidator = middleware.StaticToken(cfg.AdminToken)
		routerCfg.AdminHandler = handlers.NewAdminHandler(a.products, a.home, a.contacts)
	} else {
		logger.Info("admin routes disabled: STOREFRONT_ADMIN_TOKEN not set")
	}

	retention := jobs.NewSearchLogRetention(a.searchLogs, cfg.SearchLogRetention, m, logger)
	pruner := jobs.NewWorker("search-log-retention", retention, cfg.PruneInterval, logger)
	go pruner.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		pruner.Stop()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	pruner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
