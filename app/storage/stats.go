package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/umputun/scam-spotter/app/storage/engine"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

// service records, checker names can't start with underscore
const (
	totalKey    = "_total"    // all checked items
	detectedKey = "_detected" // items with at least one hit
)

// Stats keeps hit counters per checker and the number of checked items
type Stats struct {
	*engine.SQL
	engine.RWLocker
}

// StatsInfo is a snapshot of counters
type StatsInfo struct {
	Total    int            `json:"total"`
	Detected int            `json:"detected"`
	Hits     map[string]int `json:"hits"`
}

// stats queries
const (
	CmdCreateStatsTable engine.DBCmd = iota + 200
	CmdIncStats
	CmdReadStats
	CmdResetStats
)

var statsQueries = engine.NewQueryMap().
	Add(CmdCreateStatsTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS stats (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			gid TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			UNIQUE(gid, name)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS stats (
			id SERIAL PRIMARY KEY,
			gid TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			hits INTEGER NOT NULL DEFAULT 0,
			UNIQUE(gid, name)
		)`,
	}).
	AddSame(CmdIncStats, `INSERT INTO stats (gid, name, hits) VALUES (?, ?, 1)
		ON CONFLICT (gid, name) DO UPDATE SET hits = stats.hits + 1`).
	AddSame(CmdReadStats, `SELECT name, hits FROM stats WHERE gid = ?`).
	AddSame(CmdResetStats, `DELETE FROM stats WHERE gid = ?`)

// NewStats creates the stats storage and initializes the table
func NewStats(ctx context.Context, db *engine.SQL) (*Stats, error) {
	if db == nil {
		return nil, errors.New("no db provided")
	}
	res := &Stats{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{Name: "stats", CreateTable: CmdCreateStatsTable, MigrateFunc: noopMigrate, QueriesMap: statsQueries}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init stats table: %w", err)
	}
	return res, nil
}

// Inc increments hits of the checkers
func (s *Stats) Inc(ctx context.Context, names ...string) error {
	query, err := statsQueries.Adopted(s.SQL, CmdIncStats)
	if err != nil {
		return fmt.Errorf("failed to get upsert query: %w", err)
	}

	s.Lock()
	defer s.Unlock()
	for _, name := range names {
		if _, err := s.ExecContext(ctx, query, s.GID(), name); err != nil {
			return fmt.Errorf("failed to increment stats of %s: %w", name, err)
		}
	}
	return nil
}

// IncTotal increments the number of checked items
func (s *Stats) IncTotal(ctx context.Context) error {
	return s.Inc(ctx, totalKey)
}

// Record counts the checked item, its hits and the item itself if it was detected
func (s *Stats) Record(ctx context.Context, v scamcheck.Verdict) error {
	names := []string{totalKey}
	if v.Scam() {
		names = append(names, detectedKey)
		for _, c := range v.Checks {
			names = append(names, c.Name)
		}
	}
	return s.Inc(ctx, names...)
}

// All returns all counters
func (s *Stats) All(ctx context.Context) (StatsInfo, error) {
	query, err := statsQueries.Adopted(s.SQL, CmdReadStats)
	if err != nil {
		return StatsInfo{}, fmt.Errorf("failed to get select query: %w", err)
	}

	s.RLock()
	defer s.RUnlock()
	var rows []struct {
		Name string `db:"name"`
		Hits int    `db:"hits"`
	}
	if err := s.SelectContext(ctx, &rows, query, s.GID()); err != nil {
		return StatsInfo{}, fmt.Errorf("failed to get stats: %w", err)
	}
	res := StatsInfo{Hits: map[string]int{}}
	for _, r := range rows {
		switch r.Name {
		case totalKey:
			res.Total = r.Hits
		case detectedKey:
			res.Detected = r.Hits
		default:
			res.Hits[r.Name] = r.Hits
		}
	}
	return res, nil
}

// Reset removes all counters
func (s *Stats) Reset(ctx context.Context) error {
	query, err := statsQueries.Adopted(s.SQL, CmdResetStats)
	if err != nil {
		return fmt.Errorf("failed to get delete query: %w", err)
	}
	s.Lock()
	defer s.Unlock()
	if _, err := s.ExecContext(ctx, query, s.GID()); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}
	return nil
}
