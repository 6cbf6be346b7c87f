package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"entgo.io/ent/dialect"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // registers the "postgres" driver
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver

	"github.com/eslsoft/nihongo/internal/infrastructure/config"
)

// NewConnection opens the SQL database configured for the key-value store.
func NewConnection(cfg *config.Config) (*sqlx.DB, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}

	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}

	switch driver {
	case "postgres", "pgx":
		return newPostgresConnection(driver, dsn)
	case "sqlite3":
		return newSQLiteConnection(cfg.Database.Path, dsn)
	default:
		return nil, nil, fmt.Errorf("driver %q has no SQL connection", driver)
	}
}

// Dialect maps a database/sql driver name onto the ent SQL dialect.
func Dialect(driver string) (string, error) {
	switch driver {
	case "sqlite3":
		return dialect.SQLite, nil
	case "postgres", "pgx":
		return dialect.Postgres, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}

func newPostgresConnection(driver, dsn string) (*sqlx.DB, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)

	return db, func() { _ = db.Close() }, nil
}

func newSQLiteConnection(path, dsn string) (*sqlx.DB, func(), error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect sqlite: %w", err)
	}
	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, func() { _ = db.Close() }, nil
}
