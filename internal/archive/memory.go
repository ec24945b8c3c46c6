package archive

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements Store in memory. It backs tests and development
// setups, and supports failure injection per operation.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]memoryEntry
	failures map[string]error
}

type memoryEntry struct {
	data     []byte
	modified time.Time
}

// NewMemoryStore creates a new MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string]memoryEntry),
		failures: make(map[string]error),
	}
}

// FailWith makes the given operation ("Put", "Get", "Delete", "Exists",
// "List") return err until cleared with a nil err
func (m *MemoryStore) FailWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Len returns the number of stored entries
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Put implements Store.Put
func (m *MemoryStore) Put(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return NewError("Put", key, err, false)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures["Put"]; err != nil {
		return NewError("Put", key, err, IsRetryable(err))
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	m.entries[key] = memoryEntry{data: stored, modified: time.Now()}
	return nil
}

// Get implements Store.Get
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, NewError("Get", key, err, false)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failures["Get"]; err != nil {
		return nil, NewError("Get", key, err, IsRetryable(err))
	}

	entry, ok := m.entries[key]
	if !ok {
		return nil, NewError("Get", key, ErrNotFound, false)
	}

	data := make([]byte, len(entry.data))
	copy(data, entry.data)
	return data, nil
}

// Delete implements Store.Delete
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return NewError("Delete", key, err, false)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures["Delete"]; err != nil {
		return NewError("Delete", key, err, IsRetryable(err))
	}

	if _, ok := m.entries[key]; !ok {
		return NewError("Delete", key, ErrNotFound, false)
	}

	delete(m.entries, key)
	return nil
}

// Exists implements Store.Exists
func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, NewError("Exists", key, err, false)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failures["Exists"]; err != nil {
		return false, NewError("Exists", key, err, IsRetryable(err))
	}

	_, ok := m.entries[key]
	return ok, nil
}

// List implements Store.List
func (m *MemoryStore) List(ctx context.Context, prefix string) ([]EntryInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failures["List"]; err != nil {
		return nil, NewError("List", "", err, IsRetryable(err))
	}

	var entries []EntryInfo
	for key, entry := range m.entries {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		entries = append(entries, EntryInfo{
			Key:          key,
			Size:         int64(len(entry.data)),
			LastModified: entry.modified,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries, nil
}

// Close implements Store.Close
func (m *MemoryStore) Close() error {
	return nil
}
