package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "adventurelog-web"
)

// ErrNotLoggedIn is returned when no auth cookie is stored for a backend
var ErrNotLoggedIn = errors.New("not authenticated. Please run 'adventurelog login' first")

// getKeyringKey returns a unique key for storing auth cookies per backend
func getKeyringKey(backendURL string) string {
	return fmt.Sprintf("auth-%s", backendURL)
}

// SaveToken persists the auth cookie value in the OS keychain/credential manager
func SaveToken(backendURL, token string) error {
	if err := keyring.Set(service, getKeyringKey(backendURL), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken retrieves the auth cookie value from the OS keychain/credential manager
func LoadToken(backendURL string) (string, error) {
	token, err := keyring.Get(service, getKeyringKey(backendURL))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotLoggedIn
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the auth cookie value from the OS keychain/credential manager
func DeleteToken(backendURL string) error {
	if err := keyring.Delete(service, getKeyringKey(backendURL)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
