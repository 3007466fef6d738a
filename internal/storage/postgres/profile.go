package postgres

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
	channels := p.Channels
	if channels == nil {
		channels = []models.Channel{}
	}
	encoded, err := json.Marshal(channels)
	if err != nil {
		return fmt.Errorf("failed to encode channels: %w", err)
	}
	signedIn := p.SignedInAt
	if signedIn.IsZero() {
		signedIn = time.Now()
	}

	_, err = s.db.Exec(`
		INSERT INTO profile
			(id, username, email, role, channels, seller_id, first_access, api_url, signed_in_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			channels = EXCLUDED.channels,
			seller_id = EXCLUDED.seller_id,
			first_access = EXCLUDED.first_access,
			api_url = EXCLUDED.api_url,
			signed_in_at = EXCLUDED.signed_in_at`,
		p.Username, p.Email, string(p.Role), string(encoded), p.SellerID,
		p.FirstAccess, p.APIURL, signedIn.UTC(),
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
		channels []byte
	)
	err := s.db.QueryRow(`
		SELECT username, email, role, channels, seller_id, first_access, api_url, signed_in_at
		FROM profile WHERE id = 1`,
	).Scan(&p.Username, &p.Email, &role, &channels, &p.SellerID, &p.FirstAccess, &p.APIURL, &p.SignedInAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, storage.ErrNoProfile
		}
		return models.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	p.Role = constants.Role(role)
	if err := json.Unmarshal(channels, &p.Channels); err != nil {
		return models.Profile{}, fmt.Errorf("failed to decode channels: %w", err)
	}
	return p, nil
}

func (s *Store) ClearProfile() error {
	if _, err := s.db.Exec("DELETE FROM profile"); err != nil {
		return fmt.Errorf("failed to clear profile: %w", err)
	}
	return nil
}
