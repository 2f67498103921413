package state

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS app_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			saved_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS directories (
			position INTEGER PRIMARY KEY,
			path TEXT NOT NULL
		);

		-- owner is 'library', 'playlist:<id>' or 'section:<id>'
		CREATE TABLE IF NOT EXISTS songs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner TEXT NOT NULL,
			position INTEGER NOT NULL,
			song_id TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			album TEXT NOT NULL,
			genre TEXT,
			year TEXT,
			duration REAL,
			edited TEXT,
			custom_tags TEXT,
			UNIQUE(owner, position)
		);

		CREATE INDEX IF NOT EXISTS idx_songs_owner ON songs(owner, position);

		CREATE TABLE IF NOT EXISTS playlists (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS collection_sections (
			id TEXT PRIMARY KEY,
			collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			shuffle INTEGER NOT NULL DEFAULT 0,
			playlist_id TEXT,
			playlist_name TEXT,
			auto_fill TEXT,
			UNIQUE(collection_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_sections_collection ON collection_sections(collection_id, position);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: add duration column if missing
	_, _ = db.Exec(`ALTER TABLE songs ADD COLUMN duration REAL`)

	return nil
}
