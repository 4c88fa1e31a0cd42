package history

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/sessionctl/internal/media"
)

// Entry is one recorded session.
type Entry struct {
	SessionID    string
	MediaID      string
	Title        string
	URL          string
	StartedAt    time.Time
	EndedAt      time.Time // zero while the session is open
	LastPosition float64
	Duration     float64
	Finished     bool
	ErrorKind    string
}

// Begin opens a session row. Beginning an existing session is a no-op.
func (s *Store) Begin(sessionID string, d media.Descriptor) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (session_id, media_id, title, url, started_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING
	`, sessionID, d.ID, d.Title, d.PlaybackURL(), s.now().Unix())
	return err
}

// MarkFinished flags the session as finished and forgets the media's resume
// position.
func (s *Store) MarkFinished(sessionID, mediaID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.dropPending(mediaID)
	return withTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE sessions SET finished = 1, last_position = duration
			WHERE session_id = ?
		`, sessionID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`DELETE FROM resume_positions WHERE media_id = ?`, mediaID)
		return err
	})
}

// RecordError stores the error kind on the session, opening it when the
// error happened before any engine was created.
func (s *Store) RecordError(sessionID string, d media.Descriptor, kind string) error {
	_, err := s.db.Exec(`
		INSERT INTO sessions (session_id, media_id, title, url, started_at, error_kind)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET error_kind = excluded.error_kind
	`, sessionID, d.ID, d.Title, d.PlaybackURL(), s.now().Unix(), kind)
	return err
}

// End flushes the pending position and closes the session row.
func (s *Store) End(sessionID string) error {
	if err := s.Flush(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		UPDATE sessions SET ended_at = ? WHERE session_id = ? AND ended_at IS NULL
	`, s.now().Unix(), sessionID)
	return err
}

// Resume returns the saved position for mediaID.
func (s *Store) Resume(mediaID string) (Position, bool, error) {
	p := Position{MediaID: mediaID}
	row := s.db.QueryRow(`
		SELECT position, duration FROM resume_positions WHERE media_id = ?
	`, mediaID)
	err := row.Scan(&p.Position, &p.Duration)
	if errors.Is(err, sql.ErrNoRows) {
		return Position{}, false, nil
	}
	if err != nil {
		return Position{}, false, err
	}
	return p, true, nil
}

// Recent returns up to limit sessions, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT session_id, media_id, title, url, started_at, ended_at,
		       last_position, duration, finished, error_kind
		FROM sessions
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var title, url, errorKind sql.NullString
		var startedAt int64
		var endedAt sql.NullInt64

		err := rows.Scan(&e.SessionID, &e.MediaID, &title, &url, &startedAt, &endedAt,
			&e.LastPosition, &e.Duration, &e.Finished, &errorKind)
		if err != nil {
			return nil, err
		}

		e.Title = title.String
		e.URL = url.String
		e.ErrorKind = errorKind.String
		e.StartedAt = time.Unix(startedAt, 0)
		if endedAt.Valid {
			e.EndedAt = time.Unix(endedAt.Int64, 0)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func savePosition(db *sql.DB, p Position, now time.Time) error {
	return withTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE sessions SET last_position = ?, duration = ?
			WHERE session_id = ?
		`, p.Position, p.Duration, p.SessionID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO resume_positions (media_id, position, duration, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(media_id) DO UPDATE SET
				position = excluded.position,
				duration = excluded.duration,
				updated_at = excluded.updated_at
		`, p.MediaID, p.Position, p.Duration, now.Unix())
		return err
	})
}
