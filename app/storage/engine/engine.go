// Package engine wraps sqlx.DB for sqlite and postgres. Queries are written once with "?" placeholders
// or per dialect with QueryMap, tables are created with InitTable.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver loaded here
	_ "modernc.org/sqlite" // sqlite driver loaded here
)

// Type is a type of database engine
type Type string

// enum of supported database engines
const (
	Unknown  Type = ""
	Sqlite   Type = "sqlite"
	Postgres Type = "postgres"
)

// SQL is a wrapper for sqlx.DB with type.
// Type allows distinguishing between different database engines.
type SQL struct {
	sqlx.DB
	gid    string // group id, to allow per-instance storage in the same database
	dbType Type   // type of the database engine
}

// New makes a database engine from the connection url. Postgres urls start with postgres:// or postgresql://,
// sqlite accepts :memory:, file:, file://, sqlite:// prefixes and files with .db or .sqlite extensions.
func New(ctx context.Context, connURL, gid string) (*SQL, error) {
	if connURL == "" {
		return nil, errors.New("connection URL is empty")
	}
	switch {
	case strings.HasPrefix(connURL, "postgres://"), strings.HasPrefix(connURL, "postgresql://"):
		res, err := NewPostgres(ctx, connURL, gid)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return res, nil
	case connURL == ":memory:":
		return NewSqlite(connURL, gid)
	case strings.HasPrefix(connURL, "sqlite://"):
		return NewSqlite(strings.TrimPrefix(connURL, "sqlite://"), gid)
	case strings.HasPrefix(connURL, "file://"):
		return NewSqlite(strings.TrimPrefix(connURL, "file://"), gid)
	case strings.HasPrefix(connURL, "file:"):
		return NewSqlite(strings.TrimPrefix(connURL, "file:"), gid)
	case strings.HasSuffix(connURL, ".db"), strings.HasSuffix(connURL, ".sqlite"):
		return NewSqlite(connURL, gid)
	}
	return nil, fmt.Errorf("unsupported database type in %q", connURL)
}

// NewSqlite creates a new sqlite database
func NewSqlite(file, gid string) (*SQL, error) {
	db, err := sqlx.Connect("sqlite", file)
	if err != nil {
		return &SQL{}, err
	}
	if file == ":memory:" {
		db.SetMaxOpenConns(1) // each connection gets its own in-memory database
	}
	if err := setSqlitePragma(db); err != nil {
		return &SQL{}, err
	}
	return &SQL{DB: *db, gid: gid, dbType: Sqlite}, nil
}

// NewPostgres creates a new postgres database connection
func NewPostgres(ctx context.Context, connURL, gid string) (*SQL, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connURL)
	if err != nil {
		return &SQL{}, err
	}
	return &SQL{DB: *db, gid: gid, dbType: Postgres}, nil
}

// GID returns the group id
func (e *SQL) GID() string {
	return e.gid
}

// WithGID returns an engine for another group sharing the same connection pool
func (e *SQL) WithGID(gid string) *SQL {
	return &SQL{DB: e.DB, gid: gid, dbType: e.dbType}
}

// Type returns the database engine type
func (e *SQL) Type() Type {
	return e.dbType
}

// Adopt converts "?" placeholders to the engine's bind type
func (e *SQL) Adopt(q string) string {
	if e.dbType != Postgres {
		return q
	}
	return sqlx.Rebind(sqlx.DOLLAR, q)
}

// MakeLock creates a new lock for the database engine
func (e *SQL) MakeLock() RWLocker {
	if e.dbType == Sqlite {
		return new(sync.RWMutex) // sqlite need locking
	}
	return &NoopLocker{} // other engines don't need locking
}

func setSqlitePragma(db *sqlx.DB) error {
	pragmas := map[string]string{
		"busy_timeout": "5000",
	}
	for name, value := range pragmas {
		if _, err := db.Exec("PRAGMA " + name + " = " + value); err != nil {
			return err
		}
	}
	return nil
}

// TableConfig describes a table to initialize
type TableConfig struct {
	Name          string
	CreateTable   DBCmd
	CreateIndexes DBCmd // optional, 0 to skip
	MigrateFunc   func(ctx context.Context, tx *sqlx.Tx, gid string) error
	QueriesMap    *QueryMap
}

// InitTable creates the table if it doesn't exist, or migrates the existing one, in a single transaction
func InitTable(ctx context.Context, db *SQL, cfg TableConfig) error {
	if db == nil {
		return errors.New("db connection is nil")
	}
	if cfg.QueriesMap == nil {
		return fmt.Errorf("no queries for table %s", cfg.Name)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := tableExists(ctx, tx, db.Type(), cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to check for %s table existence: %w", cfg.Name, err)
	}

	if !exists {
		createQuery, err := cfg.QueriesMap.Pick(db.Type(), cfg.CreateTable)
		if err != nil {
			return fmt.Errorf("failed to get create table query: %w", err)
		}
		if _, err = tx.ExecContext(ctx, createQuery); err != nil {
			return fmt.Errorf("failed to create table %s: %w", cfg.Name, err)
		}
	}

	if exists && cfg.MigrateFunc != nil {
		if err = cfg.MigrateFunc(ctx, tx, db.GID()); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", cfg.Name, err)
		}
	}

	if cfg.CreateIndexes != 0 {
		idxQuery, err := cfg.QueriesMap.Pick(db.Type(), cfg.CreateIndexes)
		if err != nil {
			return fmt.Errorf("failed to get create indexes query: %w", err)
		}
		for _, q := range strings.Split(idxQuery, ";") {
			if strings.TrimSpace(q) == "" {
				continue
			}
			if _, err = tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("failed to create indexes for %s: %w", cfg.Name, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func tableExists(ctx context.Context, tx *sqlx.Tx, dbType Type, name string) (bool, error) {
	var count int
	switch dbType {
	case Sqlite:
		err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name)
		return count > 0, err
	case Postgres:
		err := tx.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1", name)
		return count > 0, err
	}
	return false, fmt.Errorf("unsupported database type %q", dbType)
}

// RWLocker is a read-write locker, sync.RWMutex for sqlite and NoopLocker for postgres
type RWLocker interface {
	sync.Locker
	RLock()
	RUnlock()
}

// NoopLocker does nothing, postgres handles concurrent access itself
type NoopLocker struct{}

// Lock is a no-op
func (NoopLocker) Lock() {}

// Unlock is a no-op
func (NoopLocker) Unlock() {}

// RLock is a no-op
func (NoopLocker) RLock() {}

// RUnlock is a no-op
func (NoopLocker) RUnlock() {}
