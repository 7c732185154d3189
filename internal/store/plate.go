package store

import (
	"database/sql"
	"errors"
	"time"
)

// Plate represents an authorized plate record stored in the database.
type Plate struct {
	ID        string
	Plate     string
	Note      string
	CreatedAt time.Time
}

// PlateRepository provides CRUD operations for authorized plates.
type PlateRepository struct {
	db *sql.DB
}

// Plates returns the plate repository for this store.
func (s *Store) Plates() *PlateRepository {
	return &PlateRepository{db: s.db}
}

// Create inserts a new plate into the registry.
func (r *PlateRepository) Create(p *Plate) error {
	p.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO plates (id, plate, note, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Plate, p.Note, p.CreatedAt,
	)
	return err
}

// GetByID retrieves a plate record by its ID.
func (r *PlateRepository) GetByID(id string) (*Plate, error) {
	p := &Plate{}

	err := r.db.QueryRow(
		`SELECT id, plate, note, created_at FROM plates WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Plate, &p.Note, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

// List retrieves all plate records in insertion order.
func (r *PlateRepository) List() ([]*Plate, error) {
	rows, err := r.db.Query(
		`SELECT id, plate, note, created_at FROM plates ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plates []*Plate
	for rows.Next() {
		p := &Plate{}
		if err := rows.Scan(&p.ID, &p.Plate, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		plates = append(plates, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plates, nil
}

// Delete removes a plate record by its ID.
func (r *PlateRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM plates WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
