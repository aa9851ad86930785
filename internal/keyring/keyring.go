// Package keyring stores momentum secrets in the OS keyring.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/momentum/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no secret is stored under the key
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnknownKey is returned for names other than the managed secrets
	ErrUnknownKey = errors.New("unknown keyring key")
)

// Key names a managed secret
type Key string

const (
	// ConnectionString is the PostgreSQL connection string
	ConnectionString Key = Key(constants.DefaultKeyringUser)
	// APIToken is the bearer token used by local clients
	APIToken Key = Key(constants.TokenKeyringUser)
)

// Keys lists every managed secret
var Keys = []Key{ConnectionString, APIToken}

// ParseKey resolves a user-supplied key name. Short aliases are accepted.
func ParseKey(name string) (Key, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "db", "database", string(ConnectionString):
		return ConnectionString, nil
	case "token", string(APIToken):
		return APIToken, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// Get retrieves a secret. Returns ErrNotFound if nothing is stored.
func Get(key Key) (string, error) {
	v, err := keyring.Get(constants.AppName, string(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

// Set stores a secret
func Set(key Key, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	if err := keyring.Set(constants.AppName, string(key), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", key, err)
	}
	return nil
}

// Delete removes a secret
func Delete(key Key) error {
	err := keyring.Delete(constants.AppName, string(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}

// GetConnectionString retrieves the database connection string
func GetConnectionString() (string, error) {
	return Get(ConnectionString)
}

// SetConnectionString stores the database connection string
func SetConnectionString(connStr string) error {
	return Set(ConnectionString, connStr)
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
