package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"climate-server/internal/config"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	DriverMattn   = "sqlite3"
	DriverModernc = "sqlite"
)

// Open returns a read-only pool over the dataset file described by cfg.
// The caller owns the handle and must Close it.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	dsn := BuildDSN(cfg.SQLiteDriver, cfg.SQLiteDSN, cfg.SQLitePath, true)

	var db *sql.DB
	if cfg.LogSQL && cfg.SQLiteDriver == DriverMattn {
		db = sql.OpenDB(NewLoggingConnector(dsn, logger))
	} else {
		var err error
		db, err = sql.Open(cfg.SQLiteDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.SQLiteMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.SQLiteMaxOpenConns)
	}
	if cfg.SQLiteMaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.SQLiteMaxIdleConns)
	}
	if cfg.SQLiteConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.SQLiteConnMaxLifetime)
	}

	// Validate connectivity early
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

// OpenWritable opens the dataset for schema tooling. The server never uses it.
func OpenWritable(ctx context.Context, driverName, path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, BuildDSN(driverName, "", path, false))
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// BuildDSN returns dsn unchanged when set, otherwise a file: URI for path
// with the pragma syntax of the given driver.
func BuildDSN(driverName, dsn, path string, readOnly bool) string {
	if dsn != "" {
		return dsn
	}

	var params []string
	if readOnly {
		params = append(params, "mode=ro")
	}
	switch driverName {
	case DriverModernc:
		params = append(params,
			"_pragma=busy_timeout(5000)",
			"_pragma=foreign_keys(1)",
		)
	default:
		params = append(params,
			"_busy_timeout=5000",
			"_foreign_keys=on",
		)
	}

	// If caller provided something like "file:/data/app.db?x=y" as path, don't double-wrap
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&")
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&"))
}
