package store

import (
	"context"
	"sync"

	"github.com/RuiFG/streaming/streaming-state/common/status"
)

type memoryChunk struct {
	payload []byte
	total   int
}

// memoryTable keeps chunk rows in process memory, for tests and dry runs.
type memoryTable struct {
	mutex *sync.RWMutex
	rows  map[string]map[int]memoryChunk
}

func NewMemoryTable() Table {
	return &memoryTable{mutex: &sync.RWMutex{}, rows: map[string]map[int]memoryChunk{}}
}

func (m *memoryTable) ChunkCount(_ context.Context, key Key) (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if c, ok := m.rows[key.String()][0]; ok {
		return c.total, nil
	}
	return 0, nil
}

func (m *memoryTable) GetChunk(_ context.Context, key Key, index int) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if c, ok := m.rows[key.String()][index]; ok {
		return append([]byte{}, c.payload...), nil
	}
	return nil, ErrChunkMissing
}

func (m *memoryTable) PutChunk(_ context.Context, key Key, index int, payload []byte, total int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	partition, ok := m.rows[key.String()]
	if !ok {
		partition = map[int]memoryChunk{}
		m.rows[key.String()] = partition
	}
	partition[index] = memoryChunk{payload: append([]byte{}, payload...), total: total}
	return nil
}

func (m *memoryTable) DeleteChunk(_ context.Context, key Key, index int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if partition, ok := m.rows[key.String()]; ok {
		delete(partition, index)
		if len(partition) == 0 {
			delete(m.rows, key.String())
		}
	}
	return nil
}

// memoryLocalStore is a LocalStore held in process memory.
type memoryLocalStore struct {
	mutex  *sync.RWMutex
	status status.Status
	values map[Key][]byte
}

func NewMemoryLocalStore() LocalStore {
	return &memoryLocalStore{mutex: &sync.RWMutex{}, status: status.Running, values: map[Key][]byte{}}
}

func (m *memoryLocalStore) Restore(_ context.Context, keys []Key) (map[Key][]byte, error) {
	if !m.status.Running() {
		return nil, ErrClosed
	}
	if err := validateKeys(keys); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	restored := make(map[Key][]byte, len(keys))
	for _, key := range keys {
		if value, ok := m.values[key]; ok {
			restored[key] = append([]byte{}, value...)
		}
	}
	return restored, nil
}

func (m *memoryLocalStore) Save(_ context.Context, entries []RawEntry) error {
	if !m.status.Running() {
		return ErrClosed
	}
	if err := validateEntries(entries); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, entry := range entries {
		m.values[entry.Key] = append([]byte{}, entry.Value...)
	}
	return nil
}

func (m *memoryLocalStore) Cleanup() error {
	if status.CAP(&m.status, status.Running, status.Closed) {
		m.mutex.Lock()
		m.values = nil
		m.mutex.Unlock()
	}
	return nil
}
