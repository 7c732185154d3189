package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Plates table - the persistent authorized-plate registry
		`CREATE TABLE IF NOT EXISTS plates (
			id TEXT PRIMARY KEY,
			plate TEXT NOT NULL UNIQUE,
			note TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sightings table - audit log of recognized plates per run
		`CREATE TABLE IF NOT EXISTS sightings (
			id TEXT PRIMARY KEY,
			plate TEXT NOT NULL,
			authorized INTEGER NOT NULL,
			frame_index INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_sightings_plate ON sightings(plate)`,
		`CREATE INDEX IF NOT EXISTS idx_sightings_created_at ON sightings(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
