package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"transportbilling/logging"
)

// MigrationsSource is where the lr_record schema lives, relative to the working directory.
const MigrationsSource = "file://db/migrations"

// RunMigrations brings the Postgres schema up to date.
func RunMigrations(dbURL, source string) error {
	if dbURL == "" {
		return errors.New("POSTGRES_URL not set")
	}
	if source == "" {
		source = MigrationsSource
	}

	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer conn.Close()

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("start postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("start migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run up migrations: %w", err)
	}

	logging.Infof("db: migrations applied")
	return nil
}
