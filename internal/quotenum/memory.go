package quotenum

import "sync"

// MemoryCounter is a Counter held in memory.
type MemoryCounter struct {
	mu    sync.Mutex
	value int
}

// NewMemoryCounter starts a counter at the given last-issued value.
func NewMemoryCounter(start int) *MemoryCounter {
	return &MemoryCounter{value: start}
}

func (m *MemoryCounter) Read() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

func (m *MemoryCounter) Write(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = n
	return nil
}
