// Package session persists named state snapshots in a SQLite database so a
// later run can rebuild its window arrangement.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/geket/lamella/internal/state"
)

// schemaVersion guards the on-disk layout. A mismatch refuses to open rather
// than guessing at a migration.
const schemaVersion = 1

// ErrNotFound reports a lookup for a session the store does not hold.
var ErrNotFound = errors.New("session not found")

// Record is the stored metadata of one snapshot.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a snapshot archive backed by one SQLite database file.
type Store struct {
	db *sql.DB
}

// Open creates or opens the session database at path. The connection runs in
// WAL mode with a single writer, which is all the engine needs.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_info (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_info: %w", err)
	}
	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_info`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.Exec(`INSERT INTO schema_info (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case version != schemaVersion:
		return fmt.Errorf("session db has schema version %d, this build expects %d", version, schemaVersion)
	}

	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		snapshot   TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS sessions_created_at ON sessions (created_at DESC)`); err != nil {
		return fmt.Errorf("index sessions table: %w", err)
	}
	return nil
}

// Save stores a snapshot under the given name and returns its record.
func (s *Store) Save(name string, snap state.Snapshot) (Record, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return Record{}, fmt.Errorf("encode snapshot: %w", err)
	}
	rec := Record{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if _, err := s.db.Exec(
		`INSERT INTO sessions (id, name, created_at, snapshot) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.CreatedAt.UnixNano(), string(payload),
	); err != nil {
		return Record{}, fmt.Errorf("insert session: %w", err)
	}
	return rec, nil
}

// List returns the stored records, newest first.
func (s *Store) List() ([]Record, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec       Record
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.CreatedAt = time.Unix(0, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Load returns the snapshot stored under id.
func (s *Store) Load(id string) (state.Snapshot, Record, error) {
	row := s.db.QueryRow(`SELECT id, name, created_at, snapshot FROM sessions WHERE id = ?`, id)
	return scanSnapshot(row)
}

// LoadLatest returns the most recently saved snapshot.
func (s *Store) LoadLatest() (state.Snapshot, Record, error) {
	row := s.db.QueryRow(`SELECT id, name, created_at, snapshot FROM sessions ORDER BY created_at DESC LIMIT 1`)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (state.Snapshot, Record, error) {
	var (
		rec       Record
		createdAt int64
		payload   string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &createdAt, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return state.Snapshot{}, Record{}, ErrNotFound
		}
		return state.Snapshot{}, Record{}, fmt.Errorf("load session: %w", err)
	}
	rec.CreatedAt = time.Unix(0, createdAt)

	var snap state.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return state.Snapshot{}, Record{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, rec, nil
}

// Prune deletes all but the newest keep sessions and reports how many rows
// went away.
func (s *Store) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id NOT IN (
		SELECT id FROM sessions ORDER BY created_at DESC LIMIT ?
	)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	return int(n), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
