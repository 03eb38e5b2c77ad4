package store

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS sent_images (
    url TEXT PRIMARY KEY,
    hash TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL,
    sent_at TEXT NOT NULL,
    query TEXT NOT NULL DEFAULT '',
    channel_id TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS bot_stats (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    total_sent INTEGER NOT NULL DEFAULT 0,
    successful_batches INTEGER NOT NULL DEFAULT 0,
    failed_batches INTEGER NOT NULL DEFAULT 0,
    filtered_images INTEGER NOT NULL DEFAULT 0,
    sources_used TEXT NOT NULL DEFAULT '{}',
    daily_stats TEXT NOT NULL DEFAULT '{}',
    start_time TEXT NOT NULL,
    last_batch_time TEXT
);

CREATE TABLE IF NOT EXISTS source_rotation (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    current_index INTEGER NOT NULL DEFAULT 0,
    last_rotated TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sent_images_sent_at ON sent_images(sent_at);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
