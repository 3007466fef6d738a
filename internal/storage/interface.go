package storage

import (
	"errors"

	"github.com/julianstephens/salesops/internal/models"
)

// ErrNoProfile is returned when nobody has signed in on this machine
var ErrNoProfile = errors.New("no stored profile")

// DefaultActivityLimit caps ListActivity when the caller passes zero
const DefaultActivityLimit = 50

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Schema
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)

	// Profile of the signed-in user. There is at most one.
	SaveProfile(models.Profile) error
	GetProfile() (models.Profile, error)
	ClearProfile() error

	// Activity journal, newest first
	RecordActivity(models.Activity) error
	ListActivity(limit int) ([]models.Activity, error)

	// Utils
	GetConfigPath() string
}
