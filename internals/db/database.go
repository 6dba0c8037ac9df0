package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SourceToggle marks events recorded by the toggle endpoint.
const SourceToggle = "toggle"

// ThemeEvent is one recorded theme change.
type ThemeEvent struct {
	ID        string    `db:"id" json:"id"`
	Mode      string    `db:"mode" json:"mode"`
	Source    string    `db:"source" json:"source"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ModeCount is the number of events that ended in a mode.
type ModeCount struct {
	Mode  string `db:"mode" json:"mode"`
	Count int    `db:"count" json:"count"`
}

// Store is the theme event log kept in SQLite.
type Store struct {
	db *sqlx.DB
	mu sync.Mutex
}

// Open creates the data directory if needed and opens the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS theme_events (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		source TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_theme_events_created ON theme_events(created_at);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("[INFO] database initialized at %s", path)
	return &Store{db: db}, nil
}

// Record appends an event and returns it.
func (s *Store) Record(mode, source string) (ThemeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := ThemeEvent{ID: uuid.NewString(), Mode: mode, Source: source, CreatedAt: time.Now().UTC()}
	_, err := s.db.NamedExec(
		"INSERT INTO theme_events (id, mode, source, created_at) VALUES (:id, :mode, :source, :created_at)", ev)
	if err != nil {
		return ThemeEvent{}, fmt.Errorf("failed to record %s event: %w", source, err)
	}
	return ev, nil
}

// Recent returns up to limit events, newest first.
func (s *Store) Recent(limit int) ([]ThemeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []ThemeEvent
	err := s.db.Select(&events,
		"SELECT id, mode, source, created_at FROM theme_events ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Counts returns the number of events per mode, ordered by mode.
func (s *Store) Counts() ([]ModeCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts []ModeCount
	if err := s.db.Select(&counts, "SELECT mode, COUNT(*) AS count FROM theme_events GROUP BY mode ORDER BY mode"); err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	return counts, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
