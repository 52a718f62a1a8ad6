package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/browser"

	awsgateway "github.com/aussiebroadwan/grawsp/internal/grawsp/gateway/aws"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/service"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/store"
	"github.com/aussiebroadwan/grawsp/internal/grawsp/store/drivers/sqlite"
	"github.com/aussiebroadwan/grawsp/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires the store, the AWS gateway and the services together for
// one CLI invocation.
type Application struct {
	Config Config
	Logger *slog.Logger

	Authorizer   *service.AuthorizerService
	Credentials  *service.CredentialService
	Sync         *service.SyncService
	Accounts     *service.AccountService
	Console      *service.ConsoleService
	Export       *service.ExportService
	Housekeeping *service.HousekeepingService

	db store.Store
}

// New creates an Application with all dependencies initialized, applying any
// pending schema migrations to the cache database.
func New(cfg Config) (*Application, error) {
	logger := slogx.New(slogx.Config{
		Service: "grawsp",
		Version: BuildVersion,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	if err := os.MkdirAll(filepath.Dir(cfg.DatabaseFile), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	gw := awsgateway.New()

	credentials := &service.CredentialService{
		Store:           db,
		Gateway:         gw,
		SessionDuration: cfg.SessionDuration,
	}

	app := &Application{
		Config: cfg,
		Logger: logger,
		db:     db,

		Authorizer: &service.AuthorizerService{
			Store:   db,
			Gateway: gw,
			OpenURL: browser.OpenURL,
		},
		Credentials: credentials,
		Sync:        &service.SyncService{Store: db, Gateway: gw},
		Accounts:    &service.AccountService{Store: db},
		Console: &service.ConsoleService{
			Credentials: credentials,
			Gateway:     gw,
			OpenURL:     browser.OpenURL,
		},
		Export:       &service.ExportService{Store: db},
		Housekeeping: &service.HousekeepingService{Store: db},
	}

	return app, nil
}

// Close releases the database handle.
func (app *Application) Close() error {
	return app.db.Close()
}
