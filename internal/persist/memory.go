package persist

import (
	"maps"
	"sync"
)

// Memory is an in-memory Port. The zero value is not usable; call NewMemory.
//
// Thread-safety: all methods are safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	data    map[string]string
	failErr error
	writes  int
}

// NewMemory creates a Memory seeded with a copy of seed.
func NewMemory(seed map[string]string) *Memory {
	m := &Memory{data: make(map[string]string, len(seed))}
	maps.Copy(m.data, seed)
	return m
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.data[key] = value
	m.writes++
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	delete(m.data, key)
	m.writes++
	return nil
}

// FailWrites makes every subsequent Set and Delete return err.
// Pass nil to restore normal behavior.
func (m *Memory) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Dump returns a copy of the stored data.
func (m *Memory) Dump() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.data)
}

// Writes returns the number of successful Set and Delete calls.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
