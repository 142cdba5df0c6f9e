package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS queue_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			current_index INTEGER NOT NULL DEFAULT 0,
			position_ms INTEGER NOT NULL DEFAULT 0,
			play_when_ready INTEGER NOT NULL DEFAULT 0,
			repeat_mode INTEGER NOT NULL DEFAULT 0,
			shuffle INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS queue_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL,
			item_id TEXT NOT NULL,
			uri TEXT NOT NULL,
			request_uri TEXT,
			title TEXT,
			artist TEXT,
			album TEXT,
			artwork_id TEXT,
			media_type TEXT,
			mime_type TEXT,
			extras TEXT,
			UNIQUE(position)
		);

		CREATE INDEX IF NOT EXISTS idx_queue_items_position ON queue_items(position);

		CREATE TABLE IF NOT EXISTS playback_marks (
			item_id TEXT PRIMARY KEY,
			last_played_at INTEGER,
			paused_at INTEGER,
			paused_position_ms INTEGER
		);

		CREATE TABLE IF NOT EXISTS chronology (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id TEXT NOT NULL,
			title TEXT,
			artist TEXT,
			album TEXT,
			played_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_chronology_played_at ON chronology(played_at DESC);

		CREATE TABLE IF NOT EXISTS equalizer_settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			enabled INTEGER NOT NULL DEFAULT 0,
			band_levels TEXT NOT NULL DEFAULT '[]'
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
