package sqlite

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/storage"
)

// fixed-width so lexical order is chronological order
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (s *Store) RecordActivity(a models.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		"INSERT INTO activity (id, kind, partner_id, summary, created_at) VALUES (?, ?, ?, ?, ?)",
		a.ID, a.Kind, a.PartnerID, a.Summary, a.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func (s *Store) ListActivity(limit int) ([]models.Activity, error) {
	if limit <= 0 {
		limit = storage.DefaultActivityLimit
	}
	rows, err := s.db.Query(
		"SELECT id, kind, partner_id, summary, created_at FROM activity ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var (
			a       models.Activity
			created string
		)
		if err := rows.Scan(&a.ID, &a.Kind, &a.PartnerID, &a.Summary, &created); err != nil {
			return nil, err
		}
		t, err := time.Parse(timestampLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for activity %s: %w", a.ID, err)
		}
		a.CreatedAt = t
		out = append(out, a)
	}
	return out, rows.Err()
}
