package db

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store records served predictions in a sqlite database.
type Store struct {
	database *sql.DB
}

type Prediction struct {
	ID         int64     `json:"id"`
	RequestID  string    `json:"request_id"`
	CGPA       float64   `json:"cgpa"`
	IQ         int       `json:"iq"`
	Prediction int       `json:"prediction"`
	ModelKind  string    `json:"model_kind"`
	CreatedAt  time.Time `json:"created_at"`
}

// Open opens the database at path and creates the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        request_id TEXT NOT NULL,
        cgpa REAL NOT NULL,
        iq INTEGER NOT NULL,
        prediction INTEGER NOT NULL,
        model_kind TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, err
	}
	return &Store{database: database}, nil
}

func (s *Store) SavePrediction(p Prediction) error {
	if s == nil || s.database == nil {
		return errors.New("database not initialized")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.database.Exec(`
        INSERT INTO predictions (request_id, cgpa, iq, prediction, model_kind, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		p.RequestID, p.CGPA, p.IQ, p.Prediction, p.ModelKind, p.CreatedAt)
	return err
}

// RecentPredictions returns up to limit rows, newest first.
func (s *Store) RecentPredictions(limit int) ([]Prediction, error) {
	if s == nil || s.database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.database.Query(`
        SELECT id, request_id, cgpa, iq, prediction, model_kind, created_at
        FROM predictions
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := make([]Prediction, 0)
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(&p.ID, &p.RequestID, &p.CGPA, &p.IQ, &p.Prediction, &p.ModelKind, &p.CreatedAt); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (s *Store) Close() error {
	if s == nil || s.database == nil {
		return nil
	}
	return s.database.Close()
}
