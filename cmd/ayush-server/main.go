package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ayushterm/api/internal/config"
	"github.com/ayushterm/api/internal/domain/encounter"
	"github.com/ayushterm/api/internal/domain/mapping"
	"github.com/ayushterm/api/internal/domain/stats"
	"github.com/ayushterm/api/internal/domain/terminology"
	"github.com/ayushterm/api/internal/loader"
	"github.com/ayushterm/api/internal/platform/auth"
	"github.com/ayushterm/api/internal/platform/cache"
	"github.com/ayushterm/api/internal/platform/db"
	"github.com/ayushterm/api/internal/platform/fhir"
	"github.com/ayushterm/api/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "ayush-server",
		Short: "AYUSH terminology and ICD-11 mapping API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(loadCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the terminology API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load terminology tables from CSV or XLSX files",
	}

	withLoader := func(fn func(ctx context.Context, l *loader.Loader, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
			return fn(ctx, loader.New(pool, logger), cmd)
		}
	}

	conceptsCmd := &cobra.Command{
		Use:   "concepts",
		Short: "Load one system's concepts, replacing prior rows",
		RunE: withLoader(func(ctx context.Context, l *loader.Loader, cmd *cobra.Command) error {
			file, _ := cmd.Flags().GetString("file")
			system, _ := cmd.Flags().GetString("system")
			if file == "" || system == "" {
				return fmt.Errorf("--file and --system are required")
			}
			n, err := l.LoadConcepts(ctx, file, system)
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d concept(s) for %s.\n", n, system)
			return nil
		}),
	}
	conceptsCmd.Flags().String("file", "", "Path to the concepts file")
	conceptsCmd.Flags().String("system", "", "Code system (ayurveda, siddha, unani)")
	cmd.AddCommand(conceptsCmd)

	icd11Cmd := &cobra.Command{
		Use:   "icd11",
		Short: "Load the ICD-11 code table, replacing prior rows",
		RunE: withLoader(func(ctx context.Context, l *loader.Loader, cmd *cobra.Command) error {
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			n, err := l.LoadICD11(ctx, file)
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d ICD-11 code(s).\n", n)
			return nil
		}),
	}
	icd11Cmd.Flags().String("file", "", "Path to the ICD-11 codes file")
	cmd.AddCommand(icd11Cmd)

	mappingsCmd := &cobra.Command{
		Use:   "mappings",
		Short: "Load one system's ICD-11 mappings, replacing prior rows",
		RunE: withLoader(func(ctx context.Context, l *loader.Loader, cmd *cobra.Command) error {
			file, _ := cmd.Flags().GetString("file")
			system, _ := cmd.Flags().GetString("system")
			if file == "" || system == "" {
				return fmt.Errorf("--file and --system are required")
			}
			n, err := l.LoadMappings(ctx, file, system)
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d mapping(s) for %s.\n", n, system)
			return nil
		}),
	}
	mappingsCmd.Flags().String("file", "", "Path to the mappings file")
	mappingsCmd.Flags().String("system", "", "Code system (ayurveda, siddha, unani)")
	cmd.AddCommand(mappingsCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Redis cache. Optional: statistics fall back to direct queries without it.
	statsCache, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, statistics caching disabled")
		statsCache = nil
	}
	if statsCache != nil {
		defer statsCache.Close()
		logger.Info().Msg("connected to redis")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.BodyLimit("2M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			SigningKey: []byte(cfg.AuthSecret),
		}))
	}

	// API groups
	apiV1 := e.Group("/api/v1")
	fhirGroup := e.Group("/fhir")

	// Rate limiting middleware
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	fhirGroup.Use(middleware.RateLimit(rateLimitCfg))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		dbStatus := db.CheckHealth(c.Request().Context(), pool)
		status := http.StatusOK
		if !dbStatus.Healthy {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, map[string]interface{}{
			"status":   map[bool]string{true: "ok", false: "degraded"}[dbStatus.Healthy],
			"version":  version,
			"database": dbStatus,
		})
	})

	// FHIR server metadata
	capStmt := fhir.NewCapabilityStatement("AYUSH Terminology Server", version)
	e.GET("/fhir/metadata", func(c echo.Context) error {
		return c.JSON(http.StatusOK, capStmt)
	})

	// Domain wiring
	mappingSvc := mapping.NewService(mapping.NewRepoPG(pool), logger)
	mapping.NewHandler(mappingSvc).RegisterRoutes(apiV1, fhirGroup)

	terminologySvc := terminology.NewService(terminology.NewRepoPG(pool), mappingSvc, logger)
	terminology.NewHandler(terminologySvc).RegisterRoutes(apiV1, fhirGroup)

	statsSvc := stats.NewService(stats.NewRepoPG(pool), statsCache,
		time.Duration(cfg.StatsCacheTTL)*time.Second, logger)
	stats.NewHandler(statsSvc).RegisterRoutes(apiV1)

	encounterSvc := encounter.NewService(encounter.NewRepoPG(pool), mappingSvc, logger)
	encounter.NewHandler(encounterSvc).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
