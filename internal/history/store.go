// Package history records playback sessions and resume positions in SQLite.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "sessionctl"
	dbFileName   = "history.db"
	saveDebounce = 500 * time.Millisecond
)

// Position is a playback position reported for one session.
type Position struct {
	SessionID string
	MediaID   string
	Position  float64 // seconds
	Duration  float64 // seconds
}

// Store persists the history. Position writes are debounced; everything else
// is written immediately.
type Store struct {
	db       *sql.DB
	now      func() time.Time
	debounce time.Duration

	writeMu   sync.Mutex // orders position writes against MarkFinished
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Position
}

// DefaultPath returns $XDG_DATA_HOME/sessionctl/history.db, creating the
// directory when needed.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens or creates the database at path. ":memory:" opens a private
// in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: SQLite serializes writers anyway and an in-memory
	// database exists per connection.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now, debounce: saveDebounce}, nil
}

func (s *Store) Close() error {
	if err := s.Flush(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

// SavePosition schedules p to be written. Later calls within the debounce
// window replace it.
func (s *Store) SavePosition(p Position) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.pending = &p

	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}

	s.saveTimer = time.AfterFunc(s.debounce, func() {
		_ = s.Flush()
	})
}

// Flush writes the pending position, if any.
func (s *Store) Flush() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.saveMu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	pending := s.pending
	s.pending = nil
	s.saveMu.Unlock()

	if pending == nil {
		return nil
	}
	return savePosition(s.db, *pending, s.now())
}

// dropPending discards a pending write for mediaID.
func (s *Store) dropPending(mediaID string) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if s.pending != nil && s.pending.MediaID == mediaID {
		s.pending = nil
	}
}

// withTx executes fn within a transaction.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
