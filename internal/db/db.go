package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vytor/readwithcard/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const pragmas = "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type DB struct {
	*sqlx.DB
	path string
	log  *logger.Logger
}

func Open(path string) (*DB, error) {
	log := logger.Default().WithPrefix("db")

	dsn := path + "?" + pragmas
	if strings.Contains(path, "?") {
		dsn = path + "&" + pragmas
	}
	log.Info("opening database: %s", path)

	sqlDB, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	// One connection serialises writers and keeps an in-memory database alive.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{DB: sqlDB, path: path, log: log}

	log.Debug("applying migrations")
	if err := db.applyMigrations(context.Background()); err != nil {
		log.Error("failed to apply migrations: %v", err)
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

// Path returns the location the database was opened from.
func (db *DB) Path() string {
	return db.path
}

// Reset closes the database, deletes its file and opens a fresh, migrated one.
// The receiver must not be used afterwards.
func (db *DB) Reset() (*DB, error) {
	db.log.Warn("resetting database: %s", db.path)
	if err := db.Close(); err != nil {
		db.log.Error("failed to close database before reset: %v", err)
		return nil, err
	}

	if file := filePath(db.path); file != "" {
		for _, p := range []string{file, file + "-wal", file + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				db.log.Error("failed to remove %s: %v", p, err)
				return nil, fmt.Errorf("remove %s: %w", p, err)
			}
		}
	}

	return Open(db.path)
}

// filePath strips the URI scheme and query from a DSN path. It returns ""
// for in-memory databases.
func filePath(path string) string {
	p := strings.TrimPrefix(path, "file:")
	if i := strings.Index(p, "?"); i >= 0 {
		p = p[:i]
	}
	if p == "" || p == MemoryPath || strings.Contains(path, "mode=memory") {
		return ""
	}
	return p
}

func (db *DB) applyMigrations(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		version := entry.Name()
		applied, err := db.isMigrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			db.log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		db.log.Info("applying migration: %s", version)
		if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
			db.log.Error("migration %s failed: %v", version, err)
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return err
		}
		db.log.Info("migration %s applied successfully", version)
	}
	return nil
}

func (db *DB) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_migrations WHERE version = ?`, version).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// AppliedMigrations lists applied migration versions in order.
func (db *DB) AppliedMigrations(ctx context.Context) ([]string, error) {
	var versions []string
	err := db.SelectContext(ctx, &versions, `SELECT version FROM schema_migrations ORDER BY version`)
	return versions, err
}
