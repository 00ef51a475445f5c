package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/varmap/internal/kinds"
	"github.com/mesh-intelligence/varmap/pkg/typedmap"
	"github.com/mesh-intelligence/varmap/pkg/variant"
)

// DBFileName is the database file created in the data directory.
const DBFileName = "varmap.db"

// FormatVersion is written with every saved map. Load accepts any 1.x.
const FormatVersion = "1.0.0"

var formatConstraint = mustConstraint("^1")

// Store errors.
var (
	ErrStoreClosed       = errors.New("store is closed")
	ErrMapNotFound       = errors.New("map not found")
	ErrInvalidName       = errors.New("invalid map name")
	ErrUnstorable        = errors.New("value cannot be stored")
	ErrFormatUnsupported = errors.New("unsupported map format")
)

// MapInfo describes a saved map.
type MapInfo struct {
	MapID     string    `json:"map_id"`
	Name      string    `json:"name"`
	Kinds     []string  `json:"kinds"`
	Entries   int       `json:"entries"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store saves and loads typed maps by name.
type Store struct {
	mu       sync.RWMutex
	db       *sql.DB
	registry *variant.Registry
}

// Option configures a Store.
type Option func(*Store)

// WithRegistry sets the registry used to encode values as text and to read
// them back. Loaded maps carry the same registry.
func WithRegistry(r *variant.Registry) Option {
	return func(s *Store) {
		if r != nil {
			s.registry = r
		}
	}
}

// Open opens or creates the database in dataDir.
func Open(dataDir string, options ...Option) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	s := &Store{db: db, registry: variant.Default()}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// Close releases the database. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// storedEntry is one row of the entries table.
type storedEntry struct {
	key   string
	kind  string
	value string
}

// Save writes m under name, replacing any map saved under that name. It
// returns the map's ID, which is kept across saves.
func (s *Store) Save(name string, m *typedmap.Map) (string, error) {
	if name == "" {
		return "", ErrInvalidName
	}
	kindNames, err := kinds.Names(m.Alternatives())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnstorable, err)
	}
	entries, err := s.encode(m)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return "", ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	kindsStr := strings.Join(kindNames, ",")

	var mapID string
	err = tx.QueryRow("SELECT map_id FROM maps WHERE name = ?", name).Scan(&mapID)
	switch {
	case err == sql.ErrNoRows:
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating UUID v7: %w", err)
		}
		mapID = id.String()
		_, err = tx.Exec(
			"INSERT INTO maps (map_id, name, kinds, format, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			mapID, name, kindsStr, FormatVersion, now, now,
		)
		if err != nil {
			return "", fmt.Errorf("inserting map: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("looking up map %s: %w", name, err)
	default:
		_, err = tx.Exec(
			"UPDATE maps SET kinds = ?, format = ?, updated_at = ? WHERE map_id = ?",
			kindsStr, FormatVersion, now, mapID,
		)
		if err != nil {
			return "", fmt.Errorf("updating map: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM entries WHERE map_id = ?", mapID); err != nil {
			return "", fmt.Errorf("clearing entries: %w", err)
		}
	}

	for _, e := range entries {
		_, err := tx.Exec(
			"INSERT INTO entries (map_id, key, kind, value) VALUES (?, ?, ?, ?)",
			mapID, e.key, e.kind, e.value,
		)
		if err != nil {
			return "", fmt.Errorf("inserting entry %s: %w", e.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing map: %w", err)
	}
	return mapID, nil
}

// encode renders every entry of m as kind name plus text.
func (s *Store) encode(m *typedmap.Map) ([]storedEntry, error) {
	keys := m.Keys()
	entries := make([]storedEntry, 0, len(keys))
	for _, key := range keys {
		v, _ := m.Lookup(key)
		kind := kinds.Name(v.Type())
		if kind == "" {
			return nil, fmt.Errorf("%w: key %s holds %v", ErrUnstorable, key, v.Type())
		}
		text, err := kinds.Format(s.registry, v)
		if err != nil {
			return nil, fmt.Errorf("%w: key %s: %w", ErrUnstorable, key, err)
		}
		entries = append(entries, storedEntry{key: key, kind: kind, value: text})
	}
	return entries, nil
}

// Load reads the map saved under name.
func (s *Store) Load(name string) (*typedmap.Map, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrStoreClosed
	}

	var mapID, kindsStr, format string
	err := s.db.QueryRow(
		"SELECT map_id, kinds, format FROM maps WHERE name = ?", name,
	).Scan(&mapID, &kindsStr, &format)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("getting map %s: %w", name, err)
	}

	version, err := semver.NewVersion(format)
	if err != nil || !formatConstraint.Check(version) {
		return nil, fmt.Errorf("%w: %q", ErrFormatUnsupported, format)
	}

	set, err := kinds.Set(strings.Split(kindsStr, ",")...)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", name, err)
	}
	m := typedmap.New(set, typedmap.WithRegistry(s.registry))

	rows, err := s.db.Query("SELECT key, kind, value FROM entries WHERE map_id = ?", mapID)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e storedEntry
		if err := rows.Scan(&e.key, &e.kind, &e.value); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		v, err := kinds.Parse(s.registry, set, e.kind, e.value)
		if err != nil {
			return nil, fmt.Errorf("decoding entry %s: %w", e.key, err)
		}
		if err := m.Put(e.key, v); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return m, nil
}

// List returns every saved map ordered by name.
func (s *Store) List() ([]MapInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`SELECT m.map_id, m.name, m.kinds, m.created_at, m.updated_at,
    (SELECT COUNT(*) FROM entries e WHERE e.map_id = m.map_id)
FROM maps m ORDER BY m.name`)
	if err != nil {
		return nil, fmt.Errorf("querying maps: %w", err)
	}
	defer rows.Close()

	infos := []MapInfo{}
	for rows.Next() {
		var info MapInfo
		var kindsStr, createdAt, updatedAt string
		if err := rows.Scan(&info.MapID, &info.Name, &kindsStr, &createdAt, &updatedAt, &info.Entries); err != nil {
			return nil, fmt.Errorf("scanning map: %w", err)
		}
		info.Kinds = strings.Split(kindsStr, ",")
		info.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		info.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes the map saved under name.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var mapID string
	err = tx.QueryRow("SELECT map_id FROM maps WHERE name = ?", name).Scan(&mapID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrMapNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("looking up map %s: %w", name, err)
	}

	if _, err := tx.Exec("DELETE FROM entries WHERE map_id = ?", mapID); err != nil {
		return fmt.Errorf("deleting entries: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM maps WHERE map_id = ?", mapID); err != nil {
		return fmt.Errorf("deleting map: %w", err)
	}
	return tx.Commit()
}

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}
