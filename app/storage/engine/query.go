package engine

import "fmt"

// DBCmd is a storage command id. Detections use 100+, stats 200+ and seen items 300+.
type DBCmd int

// Query keeps sqlite and postgres texts of a command. Upserts and trims differ between them.
type Query struct {
	Sqlite   string
	Postgres string
}

// QueryMap is a per-table command set, built once at package init of the table's storage
type QueryMap struct {
	queries map[DBCmd]Query
}

// NewQueryMap makes an empty command set
func NewQueryMap() *QueryMap {
	return &QueryMap{queries: make(map[DBCmd]Query)}
}

// Add registers both dialect texts of cmd
func (q *QueryMap) Add(cmd DBCmd, query Query) *QueryMap {
	q.queries[cmd] = query
	return q
}

// AddSame registers one text for both dialects, written with "?" placeholders
func (q *QueryMap) AddSame(cmd DBCmd, query string) *QueryMap {
	return q.Add(cmd, Query{Sqlite: query, Postgres: query})
}

// Pick returns the raw text of cmd for dbType, placeholders untouched
func (q *QueryMap) Pick(dbType Type, cmd DBCmd) (string, error) {
	query, ok := q.queries[cmd]
	if !ok {
		return "", fmt.Errorf("unsupported command type %d", cmd)
	}
	switch dbType {
	case Sqlite:
		return query.Sqlite, nil
	case Postgres:
		return query.Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

// Adopted returns the text of cmd ready to run on db, placeholders converted to db's bind type.
// All detection, stats and seen queries go through it.
func (q *QueryMap) Adopted(db *SQL, cmd DBCmd) (string, error) {
	query, err := q.Pick(db.Type(), cmd)
	if err != nil {
		return "", err
	}
	return db.Adopt(query), nil
}
