package store

import (
	"github.com/RuiFG/streaming/streaming-state/chunk"
	"github.com/pkg/errors"
)

var (
	// ErrTableUnavailable means the remote table itself is missing or
	// unreachable. It is never reported as an absent key.
	ErrTableUnavailable = errors.New("remote table unavailable")
	// ErrChunkMissing is returned by Table.GetChunk when the chunk does not exist.
	ErrChunkMissing = errors.New("chunk missing")
	// ErrCorruptObject means an object's chunk set is incomplete, usually a
	// read racing a delete-then-write of the same key.
	ErrCorruptObject = chunk.ErrCorruptObject
	// ErrInvalidKey is returned for keys whose canonical form would collide
	// with another key's.
	ErrInvalidKey = errors.New("invalid state key")
	// ErrClosed is returned by a local store after Cleanup.
	ErrClosed = errors.New("store closed")
)
