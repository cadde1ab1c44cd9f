// Package store persists favourites and send history in a local SQLite
// database. One database per config directory; a single connection with WAL
// keeps concurrent CLI invocations from tripping over each other.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Schema versions:
// v1: favourites + history tables
const currentSchemaVersion = 1

// DefaultHistoryLimit caps how many history rows are retained.
const DefaultHistoryLimit = 50

// Entry is one history row, most recent first.
type Entry struct {
	ID           int64
	Command      string
	DeviceSerial string
	SessionID    string
	SentAt       time.Time
}

// Options tunes Open.
type Options struct {
	// HistoryLimit caps retained history rows; 0 means DefaultHistoryLimit.
	HistoryLimit int
	// SeedFavourites are inserted on first open of a fresh database.
	SeedFavourites []string
	// Logger is optional.
	Logger *zap.Logger
}

// Store owns the database handle. Safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	db           *sql.DB
	historyLimit int
	sessionID    string // identifies this process run in history rows
	log          *zap.Logger
}

// Open creates or opens the database at path and applies migrations.
func Open(path string, opts Options) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("setting busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("setting journal_mode: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		db:           db,
		historyLimit: opts.HistoryLimit,
		sessionID:    uuid.NewString(),
		log:          log,
	}
	if s.historyLimit <= 0 {
		s.historyLimit = DefaultHistoryLimit
	}

	fresh, err := s.migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if fresh && len(opts.SeedFavourites) > 0 {
		if err := s.seedFavourites(opts.SeedFavourites); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	log.Debug("store opened",
		zap.String("path", path),
		zap.String("session", s.sessionID),
		zap.Bool("fresh", fresh))
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SessionID identifies this process run; every history row written through
// this Store carries it.
func (s *Store) SessionID() string { return s.sessionID }

// migrate brings the schema up to currentSchemaVersion. Returns true when the
// database was freshly created.
func (s *Store) migrate() (bool, error) {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return false, fmt.Errorf("creating schema_version: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	fresh := err == sql.ErrNoRows
	if err != nil && !fresh {
		return false, fmt.Errorf("reading schema version: %w", err)
	}

	if version < 1 {
		if _, err := s.db.Exec(`
			CREATE TABLE IF NOT EXISTS favourites (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				command    TEXT NOT NULL UNIQUE,
				created_at INTEGER NOT NULL
			);
			CREATE TABLE IF NOT EXISTS history (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				command       TEXT NOT NULL,
				device_serial TEXT NOT NULL DEFAULT '',
				session_id    TEXT NOT NULL,
				sent_at       INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_history_command ON history(command);
		`); err != nil {
			return false, fmt.Errorf("applying schema v1: %w", err)
		}
	}

	if fresh {
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, currentSchemaVersion); err != nil {
			return false, fmt.Errorf("recording schema version: %w", err)
		}
	} else if version != currentSchemaVersion {
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, currentSchemaVersion); err != nil {
			return false, fmt.Errorf("updating schema version: %w", err)
		}
	}
	return fresh, nil
}

func (s *Store) seedFavourites(seeds []string) error {
	for _, cmd := range seeds {
		if _, err := s.AddFavourite(cmd); err != nil {
			return fmt.Errorf("seeding favourites: %w", err)
		}
	}
	s.log.Debug("seeded default favourites", zap.Int("count", len(seeds)))
	return nil
}

// AddFavourite stores a favourite command. Returns false when the command is
// blank or already present.
func (s *Store) AddFavourite(command string) (bool, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO favourites (command, created_at) VALUES (?, ?)`,
		command, time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("adding favourite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveFavourite deletes a favourite. Returns false when it was not present.
func (s *Store) RemoveFavourite(command string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM favourites WHERE command = ?`, strings.TrimSpace(command))
	if err != nil {
		return false, fmt.Errorf("removing favourite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Favourites lists favourite commands in insertion order.
func (s *Store) Favourites() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT command FROM favourites ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing favourites: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var cmd string
		if err := rows.Scan(&cmd); err != nil {
			return nil, err
		}
		out = append(out, cmd)
	}
	return out, rows.Err()
}

// AddHistory records a sent command. A repeat of an existing command moves it
// to the front instead of duplicating it, and the table is pruned to the
// configured limit.
func (s *Store) AddHistory(command, deviceSerial string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return fmt.Errorf("empty command")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning history transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM history WHERE command = ?`, command); err != nil {
		return fmt.Errorf("deduplicating history: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO history (command, device_serial, session_id, sent_at) VALUES (?, ?, ?, ?)`,
		command, deviceSerial, s.sessionID, time.Now().Unix()); err != nil {
		return fmt.Errorf("inserting history: %w", err)
	}
	if _, err := tx.Exec(
		`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`,
		s.historyLimit); err != nil {
		return fmt.Errorf("pruning history: %w", err)
	}
	return tx.Commit()
}

// History lists entries most recent first.
func (s *Store) History() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT id, command, device_serial, session_id, sent_at FROM history ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var sentAt int64
		if err := rows.Scan(&e.ID, &e.Command, &e.DeviceSerial, &e.SessionID, &sentAt); err != nil {
			return nil, err
		}
		e.SentAt = time.Unix(sentAt, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ClearHistory removes every history entry.
func (s *Store) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
