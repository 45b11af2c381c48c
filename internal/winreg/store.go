package winreg

import (
	"errors"
	"strings"
	"sync"
)

// ErrUnsupported is returned by the system store on non-Windows hosts.
var ErrUnsupported = errors.New("the Windows registry is not available on this platform")

// Store reads keys and string values. Paths are relative to HKLM and use
// backslash separators. A missing key or value is reported through the
// boolean result, never as an error.
type Store interface {
	KeyExists(path string) (bool, error)
	// StringValue reads a string value; name "" selects the key's default value.
	StringValue(path, name string) (string, bool, error)
}

// MemStore is an in-memory Store. Key lookups are case-insensitive like the
// real registry. The zero value is not usable; call NewMemStore.
type MemStore struct {
	mu     sync.RWMutex
	keys   map[string]struct{}
	values map[string]map[string]string
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{
		keys:   make(map[string]struct{}),
		values: make(map[string]map[string]string),
	}
}

// CreateKey adds path and all of its parents.
func (m *MemStore) CreateKey(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createLocked(path)
}

func (m *MemStore) createLocked(path string) {
	parts := strings.Split(normalize(path), `\`)
	for i := range parts {
		m.keys[strings.Join(parts[:i+1], `\`)] = struct{}{}
	}
}

// SetString creates path if needed and sets a string value on it.
func (m *MemStore) SetString(path, name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createLocked(path)
	k := normalize(path)
	if m.values[k] == nil {
		m.values[k] = make(map[string]string)
	}
	m.values[k][strings.ToLower(name)] = value
}

// DeleteTree removes path and everything below it.
func (m *MemStore) DeleteTree(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	root := normalize(path)
	for k := range m.keys {
		if k == root || strings.HasPrefix(k, root+`\`) {
			delete(m.keys, k)
			delete(m.values, k)
		}
	}
}

func (m *MemStore) KeyExists(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.keys[normalize(path)]
	return ok, nil
}

func (m *MemStore) StringValue(path, name string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vals, ok := m.values[normalize(path)]
	if !ok {
		return "", false, nil
	}
	v, ok := vals[strings.ToLower(name)]
	return v, ok, nil
}

func normalize(path string) string {
	path = strings.ReplaceAll(path, "/", `\`)
	return strings.ToLower(strings.Trim(path, `\`))
}
