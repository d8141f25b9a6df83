package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/studyhall/studyhall-lms/internal/db/migrations"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and brings the schema up to date.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:studyhall.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/studyhall?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := migrate(db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

// migrate applies the embedded goose migrations for the active dialect.
func migrate(db *sql.DB, driver Driver) error {
	goose.SetBaseFS(migrations.FS)
	switch driver {
	case DriverSQLite:
		if err := goose.SetDialect("sqlite3"); err != nil {
			return err
		}
		return goose.Up(db, "sqlite")
	case DriverPostgres:
		if err := goose.SetDialect("postgres"); err != nil {
			return err
		}
		return goose.Up(db, "postgres")
	}
	return nil
}
