package history

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			media_id TEXT NOT NULL,
			title TEXT,
			url TEXT,
			started_at INTEGER NOT NULL,
			ended_at INTEGER,
			last_position REAL NOT NULL DEFAULT 0,
			duration REAL NOT NULL DEFAULT 0,
			finished INTEGER NOT NULL DEFAULT 0,
			error_kind TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_media ON sessions(media_id);

		CREATE TABLE IF NOT EXISTS resume_positions (
			media_id TEXT PRIMARY KEY,
			position REAL NOT NULL,
			duration REAL NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
