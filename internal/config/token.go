package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tokenFileName = "token"

// TokenFilePath returns the path of the stored auth token.
func TokenFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tokenFileName), nil
}

// LoadToken returns the auth token. CATALOGVIEW_TOKEN wins over the stored file.
// A missing token file is not an error; the token is simply empty.
func LoadToken() (string, error) {
	if tok := strings.TrimSpace(os.Getenv(EnvToken)); tok != "" {
		return tok, nil
	}

	path, err := TokenFilePath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveToken persists token with owner-only permissions.
func SaveToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token must not be empty")
	}
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := TokenFilePath()
	if err != nil {
		return err
	}
	if writeErr := os.WriteFile(path, []byte(token+"\n"), 0o600); writeErr != nil {
		return fmt.Errorf("writing token file: %w", writeErr)
	}
	return nil
}

// ClearToken removes the stored token. Removing a missing token is not an error.
func ClearToken() error {
	path, err := TokenFilePath()
	if err != nil {
		return err
	}
	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		return fmt.Errorf("removing token file: %w", rmErr)
	}
	return nil
}
