package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Hoblayerta/Loudao.aleph/internal/config"
	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
	"github.com/Hoblayerta/Loudao.aleph/internal/infra/httpserver"
	"github.com/Hoblayerta/Loudao.aleph/internal/logging"
	"github.com/Hoblayerta/Loudao.aleph/internal/middleware"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "loudao",
	Short: "Loudao report intake and analytics API",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("config load error: %w", err)
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Development)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the configured SQL backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if db == nil {
			return errors.New("storage.driver is memory; nothing to migrate")
		}
		defer db.Close()
		if err := migrateDB(cfg, db); err != nil {
			return err
		}
		logger.Info("migrations applied", zap.String("driver", cfg.Storage.Driver))
		return nil
	},
}

var orgsCmd = &cobra.Command{
	Use:   "orgs [category]",
	Short: "Print the support organization directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := build(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if len(args) == 1 {
			return enc.Encode(a.catalog.ByCategory(args[0]))
		}
		return enc.Encode(a.catalog.Grouped())
	},
}

var privateCmd = &cobra.Command{
	Use:   "private <report-id>",
	Short: "Decrypt the sealed private fields of a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := build(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()
		fields, err := a.reports.OpenPrivate(cmd.Context(), domain.ReportID(args[0]))
		if err != nil {
			return err
		}
		logger.Info("private fields opened", zap.String("report_id", args[0]))
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	},
}

func init() {
	defaultPath := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to config.yaml")
	rootCmd.AddCommand(serveCmd, migrateCmd, orgsCmd, privateCmd)
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitBurst, cfg.Server.RateLimitRefill)
	defer limiter.Close()
	if err := limiter.TrustProxies(cfg.Server.TrustedProxies); err != nil {
		return fmt.Errorf("server.trustedProxies: %w", err)
	}

	handler := httpserver.NewRouter(httpserver.Deps{
		Reports:      a.reports,
		Analytics:    a.analytics,
		Catalog:      a.catalog,
		Ledger:       a.ledger,
		Metrics:      middleware.NewMetrics(),
		Limiter:      limiter,
		Log:          logger,
		CORSOrigins:  cfg.Server.CORSOrigins,
		OperatorKeys: cfg.Server.OperatorKeys,
		Health:       a.health,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("ledger", cfg.Ledger.Mode),
			zap.String("vault", cfg.Vault.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
