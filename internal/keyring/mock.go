package keyring

import (
	"sort"
	"sync"
)

// MockStore keeps Bugzilla passwords in memory, keyed like the OS keyring
// by "<user>@<host>". Tests use it to see what login and logout stored.
type MockStore struct {
	mu          sync.RWMutex
	passwords   map[string]string
	unavailable bool
}

func NewMockStore() *MockStore {
	return &MockStore{passwords: make(map[string]string)}
}

// SetUnavailable makes the store behave like a system without a keyring.
func (m *MockStore) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

// Accounts lists the keys holding a password, sorted.
func (m *MockStore) Accounts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.passwords))
	for k := range m.passwords {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *MockStore) IsAvailable() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.unavailable {
		return ErrKeyringUnavailable
	}
	return nil
}

func (m *MockStore) Set(key, password string) error {
	if err := m.IsAvailable(); err != nil {
		return err
	}
	if key == "" || password == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passwords[key] = password
	return nil
}

func (m *MockStore) Get(key string) (string, error) {
	if err := m.IsAvailable(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	password, ok := m.passwords[key]
	if !ok {
		return "", ErrPasswordNotFound
	}
	return password, nil
}

// Delete removes a password; a missing one is not an error, as with the
// OS keyring.
func (m *MockStore) Delete(key string) error {
	if err := m.IsAvailable(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.passwords, key)
	return nil
}
