package store

import "context"

// Table is the primitive chunk API of the remote table. Every read is
// strongly consistent.
type Table interface {
	// ChunkCount reads the total chunk count recorded on chunk 0 of key,
	// 0 when the key has no chunk 0. A missing table is ErrTableUnavailable.
	ChunkCount(ctx context.Context, key Key) (int, error)
	// GetChunk fails with ErrChunkMissing when the chunk does not exist.
	GetChunk(ctx context.Context, key Key, index int) ([]byte, error)
	PutChunk(ctx context.Context, key Key, index int, payload []byte, total int) error
	// DeleteChunk succeeds when the chunk does not exist.
	DeleteChunk(ctx context.Context, key Key, index int) error
}

type RawEntry struct {
	Key   Key
	Value []byte
}

// LocalStore is the disk backed mirror. Keys it does not hold are absent
// from Restore's result, never an error.
type LocalStore interface {
	Restore(ctx context.Context, keys []Key) (map[Key][]byte, error)
	Save(ctx context.Context, entries []RawEntry) error
	Cleanup() error
}
