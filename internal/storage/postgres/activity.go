package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/storage"
)

func (s *Store) RecordActivity(a models.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, err := uuid.Parse(a.ID); err != nil {
		return fmt.Errorf("activity id %q is not a uuid: %w", a.ID, err)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		"INSERT INTO activity (id, kind, partner_id, summary, created_at) VALUES ($1, $2, $3, $4, $5)",
		a.ID, a.Kind, a.PartnerID, a.Summary, a.CreatedAt.UTC(),
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
		"SELECT id, kind, partner_id, summary, created_at FROM activity ORDER BY created_at DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Kind, &a.PartnerID, &a.Summary, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
