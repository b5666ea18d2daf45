package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/umputun/scam-spotter/app/storage/engine"
	"github.com/umputun/scam-spotter/lib/scamcheck"
)

// Detections is a storage for checked items with at least one hit
type Detections struct {
	*engine.SQL
	engine.RWLocker
}

// detections queries
const (
	CmdCreateDetectionsTable engine.DBCmd = iota + 100
	CmdCreateDetectionsIndexes
	CmdAddDetection
	CmdReadDetections
	CmdFindDetection
)

var detectionsQueries = engine.NewQueryMap().
	Add(CmdCreateDetectionsTable, engine.Query{
		Sqlite: `CREATE TABLE IF NOT EXISTS detections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			gid TEXT NOT NULL DEFAULT '',
			item_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			checks TEXT NOT NULL,
			images INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			duration INTEGER NOT NULL DEFAULT 0,
			ts TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS detections (
			id SERIAL PRIMARY KEY,
			gid TEXT NOT NULL DEFAULT '',
			item_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			checks TEXT NOT NULL,
			images INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			duration BIGINT NOT NULL DEFAULT 0,
			ts TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}).
	AddSame(CmdCreateDetectionsIndexes, `CREATE INDEX IF NOT EXISTS idx_detections_gid_ts ON detections(gid, ts);
		CREATE INDEX IF NOT EXISTS idx_detections_item ON detections(gid, item_id)`).
	AddSame(CmdAddDetection, `INSERT INTO detections (gid, item_id, title, checks, images, skipped, duration, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`).
	AddSame(CmdReadDetections, `SELECT item_id, title, checks, images, skipped, duration, ts FROM detections
		WHERE gid = ? ORDER BY id DESC LIMIT ?`).
	AddSame(CmdFindDetection, `SELECT item_id, title, checks, images, skipped, duration, ts FROM detections
		WHERE gid = ? AND item_id = ? ORDER BY id DESC LIMIT 1`)

type detectionRow struct {
	ItemID    string    `db:"item_id"`
	Title     string    `db:"title"`
	Checks    string    `db:"checks"`
	Images    int       `db:"images"`
	Skipped   int       `db:"skipped"`
	Duration  int64     `db:"duration"`
	Timestamp time.Time `db:"ts"`
}

// NewDetections creates the detections storage and initializes the table
func NewDetections(ctx context.Context, db *engine.SQL) (*Detections, error) {
	if db == nil {
		return nil, errors.New("no db provided")
	}
	res := &Detections{SQL: db, RWLocker: db.MakeLock()}
	cfg := engine.TableConfig{
		Name:          "detections",
		CreateTable:   CmdCreateDetectionsTable,
		CreateIndexes: CmdCreateDetectionsIndexes,
		MigrateFunc:   noopMigrate,
		QueriesMap:    detectionsQueries,
	}
	if err := engine.InitTable(ctx, db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init detections table: %w", err)
	}
	return res, nil
}

// Write adds a verdict, verdicts without hits are ignored
func (d *Detections) Write(ctx context.Context, v scamcheck.Verdict) error {
	if !v.Scam() {
		return nil
	}
	checks, err := json.Marshal(v.Checks)
	if err != nil {
		return fmt.Errorf("failed to marshal checks: %w", err)
	}
	if v.Time.IsZero() {
		v.Time = time.Now()
	}

	query, err := detectionsQueries.Adopted(d.SQL, CmdAddDetection)
	if err != nil {
		return fmt.Errorf("failed to get insert query: %w", err)
	}

	d.Lock()
	defer d.Unlock()
	if _, err := d.ExecContext(ctx, query, d.GID(), v.ID, v.Title, string(checks), v.Images, v.Skipped,
		v.Duration.Nanoseconds(), v.Time.UTC()); err != nil {
		return fmt.Errorf("failed to insert detection %s: %w", v.ID, err)
	}
	log.Printf("[DEBUG] detection of %s saved, %s", v.ID, scamcheck.ChecksToString(v.Checks))
	return nil
}

// Read returns up to limit most recent detections, newest first
func (d *Detections) Read(ctx context.Context, limit int) ([]scamcheck.Verdict, error) {
	query, err := detectionsQueries.Adopted(d.SQL, CmdReadDetections)
	if err != nil {
		return nil, fmt.Errorf("failed to get select query: %w", err)
	}

	d.RLock()
	defer d.RUnlock()
	var rows []detectionRow
	if err := d.SelectContext(ctx, &rows, query, d.GID(), limit); err != nil {
		return nil, fmt.Errorf("failed to get detections: %w", err)
	}
	res := make([]scamcheck.Verdict, 0, len(rows))
	for _, r := range rows {
		v, err := r.verdict()
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

// FindByItem returns the latest detection of the item
func (d *Detections) FindByItem(ctx context.Context, itemID string) (*scamcheck.Verdict, error) {
	query, err := detectionsQueries.Adopted(d.SQL, CmdFindDetection)
	if err != nil {
		return nil, fmt.Errorf("failed to get select query: %w", err)
	}

	d.RLock()
	defer d.RUnlock()
	var r detectionRow
	if err := d.GetContext(ctx, &r, query, d.GID(), itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no detection for %s", itemID)
		}
		return nil, fmt.Errorf("failed to get detection for %s: %w", itemID, err)
	}
	v, err := r.verdict()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r detectionRow) verdict() (scamcheck.Verdict, error) {
	res := scamcheck.Verdict{ID: r.ItemID, Title: r.Title, Images: r.Images, Skipped: r.Skipped,
		Duration: time.Duration(r.Duration), Time: r.Timestamp.Local()}
	if err := json.Unmarshal([]byte(r.Checks), &res.Checks); err != nil {
		return scamcheck.Verdict{}, fmt.Errorf("failed to unmarshal checks of %s: %w", r.ItemID, err)
	}
	return res, nil
}
