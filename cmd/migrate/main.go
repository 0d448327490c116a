package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"pokertable-server/internal/config"
	"pokertable-server/pkg/db"
)

type CLI struct {
	Wait time.Duration `default:"10s" help:"How long to wait for the database"`

	Up      UpCmd      `cmd:"" default:"1" help:"Apply all pending migrations"`
	Down    DownCmd    `cmd:"" help:"Revert migrations"`
	Version VersionCmd `cmd:"" help:"Print the schema version"`
}

type UpCmd struct{}

func (c *UpCmd) Run(dbh *sql.DB, cfg *config.Config) error {
	if err := db.Migrate(dbh, cfg.MigrationsPath); err != nil {
		return err
	}

	logrus.Info("migrations are up to date")
	return nil
}

type DownCmd struct {
	Steps int `default:"1" help:"Number of migrations to revert"`
}

func (c *DownCmd) Run(dbh *sql.DB, cfg *config.Config) error {
	return db.Rollback(dbh, cfg.MigrationsPath, c.Steps)
}

type VersionCmd struct{}

func (c *VersionCmd) Run(dbh *sql.DB, cfg *config.Config) error {
	version, dirty, err := db.Version(dbh, cfg.MigrationsPath)
	if err != nil {
		return err
	}

	fmt.Printf("version %d", version)
	if dirty {
		fmt.Print(" (dirty)")
	}
	fmt.Println()

	return nil
}

// waitForDB retries until the database answers or the wait is over
func waitForDB(ctx context.Context, clock quartz.Clock, dsn string, wait time.Duration) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	ticker := clock.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		dbh, err := db.Open(dsn)
		if err == nil {
			return dbh, nil
		}

		logrus.WithError(err).Debug("database is not ready")
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("could not connect to database: %w", err)
		case <-ticker.C:
		}
	}
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("migrate"),
		kong.Description("Manages the database schema"),
		kong.UsageOnError(),
	)

	cfg := config.Instance()
	dbh, err := waitForDB(context.Background(), quartz.NewReal(), cfg.PGDSN, cli.Wait)
	kctx.FatalIfErrorf(err)
	defer dbh.Close()

	kctx.FatalIfErrorf(kctx.Run(dbh, &cfg))
}
