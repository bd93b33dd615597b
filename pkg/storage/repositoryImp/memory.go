package repositoryImp

import (
	"sync"

	"feedbackgen/pkg/storage/repository"
)

// Memory is an in-process KV. Writes counts Set calls so callers can observe write-through.
type Memory struct {
	mu     sync.Mutex
	data   map[string]string
	Writes int
}

var _ repository.KV = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{data: map[string]string{}} }

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.Writes++
	return nil
}
