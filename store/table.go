package store

import (
	"context"

	"github.com/RuiFG/streaming/streaming-state/chunk"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const DefaultFetchConcurrency = 4

type TableOption func(*ChunkedTable)

// WithChunkLimit overrides chunk.Limit, only meant for tests against small tables.
func WithChunkLimit(limit int) TableOption {
	return func(t *ChunkedTable) {
		if limit > 0 {
			t.limit = limit
		}
	}
}

// WithFetchConcurrency bounds the parallel chunk reads of one object.
func WithFetchConcurrency(n int) TableOption {
	return func(t *ChunkedTable) {
		if n > 0 {
			t.fetchConcurrency = n
		}
	}
}

// ChunkedTable stores whole objects on top of a Table by spreading them over
// chunk rows that all carry the chunk count.
type ChunkedTable struct {
	table            Table
	limit            int
	fetchConcurrency int
}

func NewChunkedTable(table Table, opts ...TableOption) *ChunkedTable {
	t := &ChunkedTable{
		table:            table,
		limit:            chunk.Limit,
		fetchConcurrency: DefaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *ChunkedTable) ChunkCount(ctx context.Context, key Key) (int, error) {
	if err := key.Validate(); err != nil {
		return 0, err
	}
	count, err := t.table.ChunkCount(ctx, key)
	if err != nil {
		return 0, errors.WithMessagef(err, "failed to read chunk count of %s", key)
	}
	return count, nil
}

// GetObject reassembles the object stored under key. ok is false when the
// key has no chunks. A chunk vanishing after the count was read is
// reported as ErrCorruptObject.
func (t *ChunkedTable) GetObject(ctx context.Context, key Key) (data []byte, ok bool, err error) {
	count, err := t.ChunkCount(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if count == 0 {
		return nil, false, nil
	}
	chunks := make([][]byte, count)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(t.fetchConcurrency)
	for index := 0; index < count; index++ {
		index := index
		group.Go(func() error {
			payload, err := t.table.GetChunk(groupCtx, key, index)
			if errors.Is(err, ErrChunkMissing) {
				return errors.Wrapf(ErrCorruptObject, "%s chunk %d of %d vanished", key, index, count)
			} else if err != nil {
				return errors.WithMessagef(err, "failed to get %s chunk %d", key, index)
			}
			chunks[index] = payload
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, false, err
	}
	if data, err = chunk.Join(chunks); err != nil {
		return nil, false, errors.WithMessagef(err, "failed to join %s", key)
	}
	return data, true, nil
}

// PutObject writes data as ceil(len/limit) chunks. Stale chunks of a larger
// predecessor are not touched, call DeleteObject first.
func (t *ChunkedTable) PutObject(ctx context.Context, key Key, data []byte) error {
	if err := key.Validate(); err != nil {
		return err
	}
	chunks := chunk.Split(data, t.limit)
	for index, payload := range chunks {
		if err := t.table.PutChunk(ctx, key, index, payload, len(chunks)); err != nil {
			return errors.WithMessagef(err, "failed to put %s chunk %d of %d", key, index, len(chunks))
		}
	}
	return nil
}

// DeleteObject removes every chunk counted on chunk 0, highest index first
// so chunk 0 keeps the count until the rest are gone and an interrupted
// delete can be repeated. It does not re-check afterwards.
func (t *ChunkedTable) DeleteObject(ctx context.Context, key Key) error {
	count, err := t.ChunkCount(ctx, key)
	if err != nil {
		return err
	}
	for index := count - 1; index >= 0; index-- {
		if err := t.table.DeleteChunk(ctx, key, index); err != nil {
			return errors.WithMessagef(err, "failed to delete %s chunk %d", key, index)
		}
	}
	return nil
}

// ReplaceObject deletes the current chunks of key and writes data. The two
// steps are not atomic.
func (t *ChunkedTable) ReplaceObject(ctx context.Context, key Key, data []byte) error {
	if err := t.DeleteObject(ctx, key); err != nil {
		return err
	}
	return t.PutObject(ctx, key, data)
}
