package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/salesops/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(user string) (string, error) {
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func del(user string) error {
	err := keyring.Delete(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// GetAccessToken retrieves the API access token.
// Returns ErrNotFound if nobody is signed in.
func GetAccessToken() (string, error) {
	return get(constants.DefaultKeyringUser)
}

// GetRefreshToken retrieves the API refresh token.
func GetRefreshToken() (string, error) {
	return get(constants.RefreshKeyringUser)
}

// SetTokens stores the token pair returned by a login. The refresh token
// is optional.
func SetTokens(access, refresh string) error {
	if access == "" {
		return errors.New("access token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, access); err != nil {
		return fmt.Errorf("failed to store access token in keyring: %w", err)
	}
	if refresh == "" {
		return nil
	}
	if err := keyring.Set(constants.AppName, constants.RefreshKeyringUser, refresh); err != nil {
		return fmt.Errorf("failed to store refresh token in keyring: %w", err)
	}
	return nil
}

// DeleteTokens removes both tokens. A missing refresh token is not an
// error; a missing access token is reported as ErrNotFound.
func DeleteTokens() error {
	accessErr := del(constants.DefaultKeyringUser)
	if err := del(constants.RefreshKeyringUser); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return accessErr
}

// GetStoreURL retrieves a postgres connection string kept out of the
// config file.
func GetStoreURL() (string, error) {
	return get(constants.StoreKeyringUser)
}

// SetStoreURL stores the postgres connection string.
func SetStoreURL(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.StoreKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteStoreURL removes the stored connection string.
func DeleteStoreURL() error {
	return del(constants.StoreKeyringUser)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
