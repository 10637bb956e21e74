package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per game round
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL CHECK(mode IN ('camera', 'pointer')),
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			ended_at DATETIME,
			score INTEGER NOT NULL DEFAULT 0
		)`,

		// Shots table - every released arrow with its scored outcome
		`CREATE TABLE IF NOT EXISTS shots (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			power REAL NOT NULL,
			angle REAL NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			fired_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_shots_session_id ON shots(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_score ON sessions(score DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
