package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Shot represents one released arrow and its scored outcome.
type Shot struct {
	ID        string
	SessionID string
	Power     float64
	Angle     float64
	Points    int
	FiredAt   time.Time
}

// ShotRepository provides operations for shots.
type ShotRepository struct {
	db *sql.DB
}

// Shots returns the shot repository for this store.
func (s *Store) Shots() *ShotRepository {
	return &ShotRepository{db: s.db}
}

// Create inserts a new shot into the database. A missing ID is generated.
func (r *ShotRepository) Create(sh *Shot) error {
	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	if sh.FiredAt.IsZero() {
		sh.FiredAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO shots (id, session_id, power, angle, points, fired_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sh.ID, sh.SessionID, sh.Power, sh.Angle, sh.Points, sh.FiredAt,
	)
	return err
}

// SetPoints records the scored points for a shot once its arrow lands.
func (r *ShotRepository) SetPoints(id string, points int) error {
	result, err := r.db.Exec(`UPDATE shots SET points = ? WHERE id = ?`, points, id)
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

// ListBySession retrieves the shots of one session in firing order.
func (r *ShotRepository) ListBySession(sessionID string) ([]*Shot, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, power, angle, points, fired_at
		 FROM shots WHERE session_id = ? ORDER BY fired_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shots []*Shot
	for rows.Next() {
		sh := &Shot{}
		if err := rows.Scan(&sh.ID, &sh.SessionID, &sh.Power, &sh.Angle, &sh.Points, &sh.FiredAt); err != nil {
			return nil, err
		}
		shots = append(shots, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shots, nil
}
