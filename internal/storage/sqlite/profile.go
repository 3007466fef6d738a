package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/storage"
)

func (s *Store) SaveProfile(p models.Profile) error {
	channels, err := json.Marshal(channelsOrEmpty(p.Channels))
	if err != nil {
		return fmt.Errorf("failed to encode channels: %w", err)
	}
	signedIn := p.SignedInAt
	if signedIn.IsZero() {
		signedIn = time.Now()
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO profile
			(id, username, email, role, channels, seller_id, first_access, api_url, signed_in_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Username, p.Email, string(p.Role), string(channels), p.SellerID,
		p.FirstAccess, p.APIURL, signedIn.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *Store) GetProfile() (models.Profile, error) {
	var (
		p        models.Profile
		role     string
		channels string
		signedIn string
	)
	err := s.db.QueryRow(`
		SELECT username, email, role, channels, seller_id, first_access, api_url, signed_in_at
		FROM profile WHERE id = 1`,
	).Scan(&p.Username, &p.Email, &role, &channels, &p.SellerID, &p.FirstAccess, &p.APIURL, &signedIn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, storage.ErrNoProfile
		}
		return models.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	p.Role = constants.Role(role)
	if err := json.Unmarshal([]byte(channels), &p.Channels); err != nil {
		return models.Profile{}, fmt.Errorf("failed to decode channels: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, signedIn); err == nil {
		p.SignedInAt = t
	}
	return p, nil
}

func (s *Store) ClearProfile() error {
	if _, err := s.db.Exec("DELETE FROM profile"); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}

func channelsOrEmpty(c []models.Channel) []models.Channel {
	if c == nil {
		return []models.Channel{}
	}
	return c
}
