package auth

import (
	"fmt"
	"sync"
)

// MockStore implements CredentialStore for testing purposes
type MockStore struct {
	bundles map[string]*Credentials
	mu      sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	ListError     error
	DeleteError   error
}

// NewMockStore creates a new mock credential store
func NewMockStore() *MockStore {
	return &MockStore{
		bundles: make(map[string]*Credentials),
	}
}

// Store saves a cookie bundle to the mock store
func (m *MockStore) Store(creds *Credentials) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if creds == nil || creds.Name == "" {
		return ErrInvalidCredentials
	}

	// Copy to avoid external modifications
	c := *creds
	m.bundles[creds.Name] = &c

	return nil
}

// Retrieve gets a cookie bundle from the mock store
func (m *MockStore) Retrieve(name string) (*Credentials, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "" {
		return nil, ErrInvalidCredentials
	}

	creds, exists := m.bundles[name]
	if !exists {
		return nil, ErrCredentialsNotFound
	}

	c := *creds
	return &c, nil
}

// List returns all stored bundles from the mock store
func (m *MockStore) List() ([]*Credentials, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var bundles []*Credentials
	for _, creds := range m.bundles {
		c := *creds
		bundles = append(bundles, &c)
	}

	return bundles, nil
}

// Delete removes a cookie bundle from the mock store
func (m *MockStore) Delete(name string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		return ErrInvalidCredentials
	}

	if _, exists := m.bundles[name]; !exists {
		return ErrCredentialsNotFound
	}

	delete(m.bundles, name)
	return nil
}

// Exists checks if a bundle exists in the mock store
func (m *MockStore) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.bundles[name]
	return exists
}

// Clear removes all bundles from the mock store (useful for test cleanup)
func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bundles = make(map[string]*Credentials)
}

// Count returns the number of bundles in the mock store
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.bundles)
}

// NewMockManager creates a Manager with a mock store for testing
func NewMockManager() (*Manager, *MockStore) {
	mockStore := NewMockStore()
	manager := &Manager{
		stores: []CredentialStore{mockStore},
	}
	return manager, mockStore
}

// NewMockManagerWithStores creates a Manager with multiple stores for testing
func NewMockManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{
		stores: stores,
	}
}

// GetBundle returns a copy of a stored bundle for inspection
func (m *MockStore) GetBundle(name string) (*Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	creds, exists := m.bundles[name]
	if !exists {
		return nil, fmt.Errorf("bundle not found: %s", name)
	}

	c := *creds
	return &c, nil
}
