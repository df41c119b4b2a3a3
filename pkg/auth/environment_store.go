package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It is read-only and mainly serves containerized deployments where no
// keychain or config directory exists.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve gets a cookie bundle from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Credentials, error) {
	cookie := os.Getenv("XHSMON_COOKIE")
	a1 := os.Getenv("XHSMON_A1")
	userID := os.Getenv("XHSMON_USER_ID")

	if cookie == "" {
		return nil, ErrCredentialsNotFound
	}

	// Environment variables carry no bundle name
	if name == "" {
		name = "default"
	}

	return &Credentials{
		Name:         name,
		Cookie:       cookie,
		A1:           a1,
		UserID:       userID,
		LastModified: time.Now(),
	}, nil
}

// List returns a single bundle if environment variables are set
func (e *EnvironmentStore) List() ([]*Credentials, error) {
	creds, err := e.Retrieve("")
	if err != nil {
		return []*Credentials{}, nil
	}
	return []*Credentials{creds}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("XHSMON_COOKIE") != ""
}
