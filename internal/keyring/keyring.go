package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/lifemap/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested user
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Secret names a value stored under the lifemap keyring service.
type Secret string

const (
	ConnectionString Secret = constants.DefaultKeyringUser
	NarratorAPIKey   Secret = constants.NarratorKeyringUser
)

// Secrets lists every secret the CLI manages.
var Secrets = []Secret{ConnectionString, NarratorAPIKey}

// ParseSecret maps a user-facing name ("db", "narrator") to a Secret.
func ParseSecret(name string) (Secret, error) {
	switch name {
	case "db", "database", string(ConnectionString):
		return ConnectionString, nil
	case "narrator", "api-key", string(NarratorAPIKey):
		return NarratorAPIKey, nil
	}
	return "", fmt.Errorf("unknown secret %q (expected db or narrator)", name)
}

// Get retrieves a secret from the OS keyring.
// Returns ErrNotFound if nothing is stored.
func Get(s Secret) (string, error) {
	value, err := keyring.Get(constants.AppName, string(s))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		// Wrap other keyring errors as unavailable
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores a secret in the OS keyring.
func Set(s Secret, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", s)
	}
	if err := keyring.Set(constants.AppName, string(s), value); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
func Delete(s Secret) error {
	err := keyring.Delete(constants.AppName, string(s))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string.
func GetConnectionString() (string, error) {
	return Get(ConnectionString)
}

// SetConnectionString stores the database connection string.
func SetConnectionString(connStr string) error {
	return Set(ConnectionString, connStr)
}

// DeleteConnectionString removes the database connection string.
func DeleteConnectionString() error {
	return Delete(ConnectionString)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered and is simply empty
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
