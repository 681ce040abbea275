package datasource

import (
	"context"
	"fmt"
	"sync"
)

// Serves data files held in memory. Handy in tests.
type Memory struct {
	mutex sync.Mutex
	files map[string][]byte
	reads map[string]int
}

func NewMemory(files map[string]string) *Memory {
	m := &Memory{
		files: map[string][]byte{},
		reads: map[string]int{},
	}
	for name, content := range files {
		m.files[name] = []byte(content)
	}
	return m
}

func (m *Memory) Read(ctx context.Context, name string) ([]byte, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	buf, found := m.files[name]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	m.reads[name]++

	return buf, nil
}

// Number of times the named file has been read.
func (m *Memory) Reads(name string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.reads[name]
}
