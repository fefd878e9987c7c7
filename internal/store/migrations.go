package store

import "database/sql"

// migrate runs all database migrations. Heart rate zones are deliberately not
// a table: they are derived from the athlete constants on demand.
func migrate(db *sql.DB) error {
	migrations := []string{
		// Canonical activity records, one row per imported file
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			sub_type TEXT,
			start_time TEXT NOT NULL,
			duration INTEGER NOT NULL,
			moving_duration INTEGER,
			distance REAL NOT NULL,
			avg_speed REAL,
			max_speed REAL,
			elevation_gain REAL,
			elevation_loss REAL,
			avg_heart_rate INTEGER,
			max_heart_rate INTEGER,
			avg_cadence REAL,
			avg_power INTEGER,
			normalized_power INTEGER,
			avg_temperature REAL,
			max_temperature REAL,
			calories INTEGER,
			trimp INTEGER,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_time ON activities(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,

		// GPS trace, ordered per activity
		`CREATE TABLE IF NOT EXISTS track_points (
			activity_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			elevation REAL,
			time TEXT,
			heart_rate INTEGER,
			speed REAL,
			PRIMARY KEY (activity_id, seq),
			FOREIGN KEY (activity_id) REFERENCES activities(id) ON DELETE CASCADE
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}
