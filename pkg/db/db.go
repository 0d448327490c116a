package db

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // needed
	_ "github.com/lib/pq"                                // needed
	"github.com/sirupsen/logrus"
	"pokertable-server/internal/util"
)

const defaultDSN = "postgres://postgres@localhost:5432/postgres?sslmode=disable"

var (
	instanceMu sync.Mutex
	instance   *sql.DB
)

// Instance returns a database instance
// The DSN is read from PTS_PG_DSN.
func Instance() *sql.DB {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance == nil {
		db, err := Open(util.Getenv("PTS_PG_DSN", defaultDSN))
		if err != nil {
			panic(err)
		}

		instance = db
	}

	return instance
}

// Open connects to the database and pings it
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs the migrations found in migrationsPath
func Migrate(db *sql.DB, migrationsPath string) error {
	logrus.WithField("migrationsPath", migrationsPath).Info("running migrations")
	m, err := newMigrate(db, migrationsPath)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// Rollback reverts the last steps migrations
func Rollback(db *sql.DB, migrationsPath string, steps int) error {
	if steps <= 0 {
		return errors.New("steps must be > 0")
	}

	logrus.WithFields(logrus.Fields{
		"migrationsPath": migrationsPath,
		"steps":          steps,
	}).Info("rolling back migrations")
	m, err := newMigrate(db, migrationsPath)
	if err != nil {
		return err
	}

	return m.Steps(-steps)
}

// Version returns the current schema version
func Version(db *sql.DB, migrationsPath string) (uint, bool, error) {
	m, err := newMigrate(db, migrationsPath)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	return version, dirty, err
}

func newMigrate(db *sql.DB, migrationsPath string) (*migrate.Migrate, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, err
	}

	return migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsPath), "postgres", driver)
}

// Scanner is an interface that sql should've provided
// No snark here...
type Scanner interface {
	Scan(...interface{}) error
}
