// Package sqlite persists typed maps in a SQLite database.
// Every value is stored as its text coercion next to its kind name, and read
// back by casting the text to that kind.
package sqlite

// Schema DDL. Statements are idempotent so an existing database is reused.
const (
	createMaps = `CREATE TABLE IF NOT EXISTS maps (
    map_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    kinds TEXT NOT NULL,
    format TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createEntries = `CREATE TABLE IF NOT EXISTS entries (
    map_id TEXT NOT NULL,
    key TEXT NOT NULL,
    kind TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (map_id, key),
    FOREIGN KEY (map_id) REFERENCES maps(map_id)
);`

	createEntriesIndex = `CREATE INDEX IF NOT EXISTS idx_entries_map ON entries(map_id);`
)

// schemaStatements lists the DDL in execution order.
var schemaStatements = []string{
	createMaps,
	createEntries,
	createEntriesIndex,
}
