package container

import (
	"context"
	"fmt"
	"log"

	"enrolldash/adapters/memory"
	"enrolldash/adapters/postgres"
	"enrolldash/app"
	"enrolldash/internal/config"
	"enrolldash/internal/migration"
	"enrolldash/internal/uploads"
	"enrolldash/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure. DB is nil when no DATABASE_URL is configured.
	DB *sqlx.DB

	// Repositories (data access layer)
	RunRepo ports.RunRepository

	Archive   *uploads.Archive
	Dashboard *app.DashboardService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config:  cfg,
		Archive: uploads.NewArchive(cfg.Uploads.ArchiveDir),
	}, nil
}

// Init connects the run history store and builds the dashboard service.
// Without a database URL, history is kept in memory for the life of the process.
func (c *Container) Init(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		log.Printf("No DATABASE_URL configured, keeping run history in memory")
		c.RunRepo = memory.NewRunRepository(memory.DefaultRunCapacity)
	} else {
		db, err := connect(ctx, c.Config.Database)
		if err != nil {
			return err
		}
		if err := c.InitWithDatabase(ctx, db); err != nil {
			db.Close()
			return err
		}
	}

	c.Dashboard = app.NewDashboardService(c.Config, c.RunRepo, c.Archive)
	log.Printf("Container initialized (archive enabled: %t)", c.Archive.Enabled())
	return nil
}

// InitWithDatabase migrates db and stores run history in it
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	c.DB = db
	c.RunRepo = postgres.NewRunRepository(db)
	return nil
}

func connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
