package repository

import "sync"

// MemoryStore is an in-process key/value store with the same surface as
// SettingsRepository. Used for ephemeral runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string

	// FailWith, when set, is returned by every write
	FailWith error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) LookupSetting(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) DeleteSetting(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.values, key)
	return nil
}

func (m *MemoryStore) AllSettings() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) ReplaceAll(values map[string]string, remove []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, key := range remove {
		delete(m.values, key)
	}
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}
