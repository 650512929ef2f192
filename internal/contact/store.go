package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/portfolio/internal/db"
)

// Record is a stored submission.
type Record struct {
	ID         string     `json:"id"`
	CreatedAt  time.Time  `json:"createdAt"`
	Submission Submission `json:"submission"`
	RemoteAddr string     `json:"remoteAddr,omitempty"`
}

// Store persists submissions.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Save stores a submission and returns the record with its generated ID.
func (s *Store) Save(ctx context.Context, sub Submission, remoteAddr string) (Record, error) {
	rec := Record{
		ID:         uuid.NewString(),
		CreatedAt:  s.now().UTC(),
		Submission: sub,
		RemoteAddr: remoteAddr,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_messages (
			id, created_at, first_name, last_name, email, subject, message, remote_addr
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt,
		sub.FirstName,
		sub.LastName,
		sub.Email,
		sub.Subject,
		sub.Message,
		remoteAddr,
	)
	if err != nil {
		return Record{}, fmt.Errorf("inserting contact message: %w", err)
	}
	return rec, nil
}

// List returns the most recent submissions, newest first. A non-positive
// limit defaults to 50.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, first_name, last_name, email, subject, message, remote_addr
		FROM contact_messages
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying contact messages: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.ID,
			&r.CreatedAt,
			&r.Submission.FirstName,
			&r.Submission.LastName,
			&r.Submission.Email,
			&r.Submission.Subject,
			&r.Submission.Message,
			&r.RemoteAddr,
		); err != nil {
			return nil, fmt.Errorf("scanning contact message: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
