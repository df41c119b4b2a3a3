package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Credentials is one named cookie bundle used to authenticate crawl sessions.
// Cookie is the raw browser cookie header; A1 is the device token the signer
// needs alongside it.
type Credentials struct {
	Name         string    `json:"name"`
	Cookie       string    `json:"cookie"`
	A1           string    `json:"a1"`
	UserID       string    `json:"user_id,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving cookie bundles
type CredentialStore interface {
	// Store saves a cookie bundle under its name
	Store(creds *Credentials) error

	// Retrieve gets the bundle stored under a name
	Retrieve(name string) (*Credentials, error)

	// List returns all stored bundles
	List() ([]*Credentials, error)

	// Delete removes the bundle stored under a name
	Delete(name string) error

	// Exists checks if a bundle exists under a name
	Exists(name string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a new credential manager with appropriate storage backends
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	// Try keyring first (system keychain)
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Always add encrypted file store as fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	// Add environment store as last resort
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// Store saves a cookie bundle using the first available store
func (m *Manager) Store(creds *Credentials) error {
	if creds.Name == "" {
		return errors.New("bundle name is required")
	}
	if creds.Cookie == "" {
		return errors.New("cookie is required")
	}

	creds.LastModified = time.Now()

	// Try each store in order
	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(creds); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets a bundle from the first store that has it
func (m *Manager) Retrieve(name string) (*Credentials, error) {
	for _, store := range m.stores {
		if creds, err := store.Retrieve(name); err == nil && creds != nil {
			return creds, nil
		}
	}
	return nil, fmt.Errorf("credentials not found: %s", name)
}

// RetrieveDefault gets the environment bundle if present, otherwise the first
// stored one
func (m *Manager) RetrieveDefault() (*Credentials, error) {
	if envStore, ok := m.stores[len(m.stores)-1].(*EnvironmentStore); ok {
		if creds, err := envStore.Retrieve(""); err == nil && creds != nil {
			return creds, nil
		}
	}

	bundles, err := m.List()
	if err == nil && len(bundles) > 0 {
		return bundles[0], nil
	}

	return nil, errors.New("no credentials found")
}

// List returns all stored bundles from all stores
func (m *Manager) List() ([]*Credentials, error) {
	bundleMap := make(map[string]*Credentials)

	for _, store := range m.stores {
		bundles, err := store.List()
		if err != nil {
			continue
		}
		for _, creds := range bundles {
			// Keep the most recently modified version
			if existing, ok := bundleMap[creds.Name]; !ok || creds.LastModified.After(existing.LastModified) {
				bundleMap[creds.Name] = creds
			}
		}
	}

	var result []*Credentials
	for _, creds := range bundleMap {
		result = append(result, creds)
	}

	return result, nil
}

// Delete removes a bundle from all stores
func (m *Manager) Delete(name string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(name); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("credentials not found: %s", name)
	}

	return nil
}

// DeleteAll removes all stored bundles
func (m *Manager) DeleteAll() error {
	bundles, err := m.List()
	if err != nil {
		return err
	}

	for _, creds := range bundles {
		_ = m.Delete(creds.Name) // Ignore individual errors
	}

	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "xhsmonitor")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "xhsmonitor")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "xhsmonitor")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "xhsmonitor")
		}
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// SanitizeCredentials creates a copy of the bundle with sensitive data masked
func SanitizeCredentials(creds *Credentials) *Credentials {
	if creds == nil {
		return nil
	}

	return &Credentials{
		Name:         creds.Name,
		Cookie:       maskString(creds.Cookie),
		A1:           maskString(creds.A1),
		UserID:       creds.UserID,
		LastModified: creds.LastModified,
	}
}

// maskString masks all but the first 4 and last 4 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
