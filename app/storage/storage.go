// Package storage keeps detections, counters and processed items in sql databases.
// Each table is represented by a struct with methods implementing the business logic for this data type.
// All tables are shared between instances and separated by the engine's group id.
package storage

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
)

// noopMigrate is used by tables without migrations yet
func noopMigrate(_ context.Context, _ *sqlx.Tx, gid string) error {
	log.Printf("[DEBUG] no migration needed for %s", gid)
	return nil
}
