package store

import (
	"database/sql"
	"time"
)

// Sighting represents one recognized plate logged during a run.
type Sighting struct {
	ID         string
	Plate      string
	Authorized bool
	FrameIndex int
	CreatedAt  time.Time
}

// SightingRepository provides operations for the sighting log.
type SightingRepository struct {
	db *sql.DB
}

// Sightings returns the sighting repository for this store.
func (s *Store) Sightings() *SightingRepository {
	return &SightingRepository{db: s.db}
}

// Create inserts a new sighting into the log.
func (r *SightingRepository) Create(sg *Sighting) error {
	sg.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sightings (id, plate, authorized, frame_index, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sg.ID, sg.Plate, boolToInt(sg.Authorized), sg.FrameIndex, sg.CreatedAt,
	)
	return err
}

// ListRecent retrieves the most recent sightings, newest first.
// A limit of 0 or less defaults to 50.
func (r *SightingRepository) ListRecent(limit int) ([]*Sighting, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, plate, authorized, frame_index, created_at
		 FROM sightings ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sightings []*Sighting
	for rows.Next() {
		sg := &Sighting{}
		var authorized int

		if err := rows.Scan(&sg.ID, &sg.Plate, &authorized, &sg.FrameIndex, &sg.CreatedAt); err != nil {
			return nil, err
		}

		sg.Authorized = authorized != 0
		sightings = append(sightings, sg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sightings, nil
}

// CountByPlate returns how many times a plate has been sighted.
func (r *SightingRepository) CountByPlate(plate string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sightings WHERE plate = ?`, plate).Scan(&count)
	return count, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
