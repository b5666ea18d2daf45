package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/umputun/scam-spotter/app/storage/engine"
)

// Seen keeps ids of processed items, so restarted listeners don't check them again
type Seen struct {
	*engine.SQL
	engine.RWLocker
}

// seen queries
const (
	CmdCreateSeenTable engine.DBCmd = iota + 300
	CmdCreateSeenIndexes
	CmdAddSeen
	CmdHasSeen
	CmdTrimSeen
	CmdCountSeen
)

var seenQueries = engine.NewQueryMap().
	Add(CmdCreateSeenTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS seen (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			gid TEXT NOT NULL DEFAULT '',
			item_id TEXT NOT NULL,
			ts TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(gid, item_id)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS seen (
			id SERIAL PRIMARY KEY,
			gid TEXT NOT NULL DEFAULT '',
			item_id TEXT NOT NULL,
			ts TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(gid, item_id)
		)`,
	}).
	AddSame(CmdCreateSeenIndexes, `CREATE INDEX IF NOT EXISTS idx_seen_gid ON seen(gid)`).
	AddSame(CmdAddSeen, `INSERT INTO seen (gid, item_id, ts) VALUES (?, ?, ?) ON CONFLICT (gid, item_id) DO NOTHING`).
	AddSame(CmdHasSeen, `SELECT COUNT(*) FROM seen WHERE gid = ? AND item_id = ?`).
	AddSame(CmdTrimSeen, `DELETE FROM seen WHERE gid = ? AND id NOT IN
		(SELECT id FROM seen WHERE gid = ? ORDER BY id DESC LIMIT ?)`).
	AddSame(CmdCountSeen, `SELECT COUNT(*) FROM seen WHERE gid = ?`)

// NewSeen creates the seen items storage and initializes the table
func NewSeen(ctx context.Context, db *engine.SQL) (*Seen, error) {
	if db == nil {
		return nil, errors.New("no db provided")
	}
	res := &Seen{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{Name: "seen", CreateTable: CmdCreateSeenTable, CreateIndexes: CmdCreateSeenIndexes,
		MigrateFunc: noopMigrate, QueriesMap: seenQueries}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init seen table: %w", err)
	}
	return res, nil
}

// Add marks the item as seen, adding the same item twice is not an error
func (s *Seen) Add(ctx context.Context, itemID string) error {
	query, err := seenQueries.Adopted(s.SQL, CmdAddSeen)
	if err != nil {
		return fmt.Errorf("failed to get insert query: %w", err)
	}
	s.Lock()
	defer s.Unlock()
	if _, err := s.ExecContext(ctx, query, s.GID(), itemID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to add seen item %s: %w", itemID, err)
	}
	return nil
}

// Has checks if the item was seen
func (s *Seen) Has(ctx context.Context, itemID string) (bool, error) {
	query, err := seenQueries.Adopted(s.SQL, CmdHasSeen)
	if err != nil {
		return false, fmt.Errorf("failed to get select query: %w", err)
	}
	s.RLock()
	defer s.RUnlock()
	var count int
	if err := s.GetContext(ctx, &count, query, s.GID(), itemID); err != nil {
		return false, fmt.Errorf("failed to check seen item %s: %w", itemID, err)
	}
	return count > 0, nil
}

// Trim keeps only the latest items, returns the number of removed items
func (s *Seen) Trim(ctx context.Context, keep int) (int64, error) {
	query, err := seenQueries.Adopted(s.SQL, CmdTrimSeen)
	if err != nil {
		return 0, fmt.Errorf("failed to get delete query: %w", err)
	}
	s.Lock()
	defer s.Unlock()
	res, err := s.ExecContext(ctx, query, s.GID(), s.GID(), keep)
	if err != nil {
		return 0, fmt.Errorf("failed to trim seen items: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of seen items
func (s *Seen) Count(ctx context.Context) (int, error) {
	query, err := seenQueries.Adopted(s.SQL, CmdCountSeen)
	if err != nil {
		return 0, fmt.Errorf("failed to get count query: %w", err)
	}
	s.RLock()
	defer s.RUnlock()
	var count int
	if err := s.GetContext(ctx, &count, query, s.GID()); err != nil {
		return 0, fmt.Errorf("failed to count seen items: %w", err)
	}
	return count, nil
}
