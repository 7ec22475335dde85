package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Hoblayerta/Loudao.aleph/internal/application"
	appanalytics "github.com/Hoblayerta/Loudao.aleph/internal/application/analytics"
	appreports "github.com/Hoblayerta/Loudao.aleph/internal/application/reports"
	appsupport "github.com/Hoblayerta/Loudao.aleph/internal/application/support"
	"github.com/Hoblayerta/Loudao.aleph/internal/config"
	domledger "github.com/Hoblayerta/Loudao.aleph/internal/domain/ledger"
	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
	memorydb "github.com/Hoblayerta/Loudao.aleph/internal/infra/db/memory"
	mysqlp "github.com/Hoblayerta/Loudao.aleph/internal/infra/db/mysql"
	postgresp "github.com/Hoblayerta/Loudao.aleph/internal/infra/db/postgres"
	"github.com/Hoblayerta/Loudao.aleph/internal/infra/ledger"
	"github.com/Hoblayerta/Loudao.aleph/internal/infra/seal"
	"github.com/Hoblayerta/Loudao.aleph/internal/infra/storage"
	"github.com/Hoblayerta/Loudao.aleph/internal/middleware"
)

// app holds everything the commands need.
type app struct {
	reports   *appreports.Service
	analytics *appanalytics.Service
	catalog   *appsupport.Catalog
	ledger    domledger.Mirror
	health    middleware.Health
	closers   []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// openDB connects to the configured SQL backend, or returns nil for memory.
func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	switch cfg.Storage.Driver {
	case "mysql":
		return mysqlp.Connect(ctx, cfg.MySQLDSN())
	case "postgres":
		return postgresp.Connect(ctx, cfg.PostgresDSN())
	default:
		return nil, nil
	}
}

func migrateDB(cfg *config.Config, db *sql.DB) error {
	switch cfg.Storage.Driver {
	case "mysql":
		return mysqlp.Migrate(db)
	case "postgres":
		return postgresp.Migrate(db)
	default:
		return nil
	}
}

func build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{health: middleware.Health{
		Components: map[string]string{
			"storage": cfg.Storage.Driver,
			"ledger":  cfg.Ledger.Mode,
			"vault":   cfg.Vault.Driver,
		},
		Checkers: map[string]middleware.HealthChecker{},
	}}

	// init repo
	var repo domain.Repository
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s connect: %w", cfg.Storage.Driver, err)
	}
	if db == nil {
		repo = memorydb.NewReportRepository()
		logger.Warn("using in-memory report store; reports are lost on restart")
	} else {
		a.closers = append(a.closers, db.Close)
		a.health.Checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
		if err := migrateDB(cfg, db); err != nil {
			a.Close()
			return nil, err
		}
		if cfg.Storage.Driver == "mysql" {
			repo = mysqlp.NewReportRepository(db)
		} else {
			repo = postgresp.NewReportRepository(db)
		}
	}

	// init vault
	var vault domain.Vault
	switch cfg.Vault.Driver {
	case "minio":
		m := cfg.Vault.Minio
		store, err := storage.New(ctx, m.Endpoint, m.Region, m.BucketName, m.AccessKey, m.SecretKey, m.UseSSL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("minio init error: %w", err)
		}
		a.health.Checkers["vault"] = store
		vault = store
	default:
		vault = storage.NewMemory()
	}

	// init sealer
	secret := []byte(cfg.Seal.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			a.Close()
			return nil, err
		}
		logger.Warn("no seal secret configured; using an ephemeral key, sealed fields will be unreadable after restart")
	}
	sealer, err := seal.New(secret, []byte(cfg.Seal.Salt))
	if err != nil {
		a.Close()
		return nil, err
	}

	// init ledger
	switch cfg.Ledger.Mode {
	case "memory":
		a.ledger = ledger.NewMemory(cfg.Ledger.Address)
	default:
		a.ledger = ledger.ClientReceipt{}
	}
	a.health.Checkers["ledger"] = middleware.CheckerFunc(func(ctx context.Context) error {
		if _, err := a.ledger.Stats(ctx); err != nil && !errors.Is(err, domledger.ErrUnsupported) {
			return err
		}
		return nil
	})

	classifier := domain.NewClassifier()
	a.reports = &appreports.Service{
		Repo:       repo,
		Ledger:     a.ledger,
		Sealer:     sealer,
		Vault:      vault,
		Clock:      application.SystemClock{},
		Classifier: classifier,
		Rules: appreports.Rules{
			MinYear:        cfg.Validation.MinYear,
			MaxYear:        cfg.Validation.MaxYear,
			AllowLocalOnly: cfg.Ledger.AllowLocalOnly,
		},
		Log: logger.Named("reports"),
	}
	a.analytics = &appanalytics.Service{Repo: repo, Classifier: classifier}
	a.catalog = appsupport.Default()
	return a, nil
}
