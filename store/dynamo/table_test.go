package dynamo

import (
	"bytes"
	"context"
	"testing"

	"github.com/RuiFG/streaming/streaming-state/codec"
	"github.com/RuiFG/streaming/streaming-state/store"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = "tron-state"

func TestTableName(t *testing.T) {
	assert.Equal(t, "tron-state-prod", TableName("tron/state/prod"))
	assert.Equal(t, "plain", TableName("plain"))
}

func TestChunkRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamoDB(testTable)
	table := New(fake, testTable)
	key := store.NewKey("job_state", "nightly")

	count, err := table.ChunkCount(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, table.PutChunk(ctx, key, 0, []byte("abc"), 2))
	require.NoError(t, table.PutChunk(ctx, key, 1, []byte("de"), 2))
	count, err = table.ChunkCount(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	payload, err := table.GetChunk(ctx, key, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("de"), payload)

	item := fake.items(testTable)["job_state nightly#1"]
	require.NotNil(t, item)
	assert.Equal(t, "job_state nightly", aws.StringValue(item["key"].S))
	assert.Equal(t, "1", aws.StringValue(item["index"].N))
	assert.Equal(t, "2", aws.StringValue(item["size"].N))
	assert.Equal(t, []byte("de"), item["val"].B)

	for _, input := range fake.gets {
		assert.True(t, aws.BoolValue(input.ConsistentRead))
	}
}

func TestGetChunkMissing(t *testing.T) {
	_, err := New(newFakeDynamoDB(testTable), testTable).GetChunk(context.Background(), store.NewKey("job_state", "x"), 3)
	assert.True(t, errors.Is(err, store.ErrChunkMissing))
}

func TestDeleteChunkIsIdempotent(t *testing.T) {
	ctx := context.Background()
	table := New(newFakeDynamoDB(testTable), testTable)
	key := store.NewKey("job_state", "x")
	require.NoError(t, table.PutChunk(ctx, key, 0, []byte("a"), 1))
	require.NoError(t, table.DeleteChunk(ctx, key, 0))
	require.NoError(t, table.DeleteChunk(ctx, key, 0))
	count, err := table.ChunkCount(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMissingTableIsUnavailable(t *testing.T) {
	ctx := context.Background()
	table := New(newFakeDynamoDB(), "not-provisioned")
	key := store.NewKey("job_state", "x")

	_, err := table.ChunkCount(ctx, key)
	assert.True(t, errors.Is(err, store.ErrTableUnavailable))
	_, err = table.GetChunk(ctx, key, 0)
	assert.True(t, errors.Is(err, store.ErrTableUnavailable))
	assert.False(t, errors.Is(err, store.ErrChunkMissing))
	assert.True(t, errors.Is(table.PutChunk(ctx, key, 0, []byte("a"), 1), store.ErrTableUnavailable))
	assert.True(t, errors.Is(table.DeleteChunk(ctx, key, 0), store.ErrTableUnavailable))
}

func TestShrinkSafeOverwriteOnDynamo(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamoDB(testTable)
	remote := store.NewChunkedTable(New(fake, testTable))
	key := store.NewKey("job_state", "shrink")

	require.NoError(t, remote.ReplaceObject(ctx, key, bytes.Repeat([]byte{1}, 900001)))
	assert.Len(t, fake.items(testTable), 3)

	require.NoError(t, remote.ReplaceObject(ctx, key, []byte("0123456789")))
	items := fake.items(testTable)
	assert.Len(t, items, 1)
	assert.Contains(t, items, "job_state shrink#0")

	data, ok, err := remote.GetObject(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("0123456789"), data)
}

func TestCreateTable(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamoDB()
	table := New(fake, testTable)
	_, err := table.ChunkCount(ctx, store.NewKey("job_state", "x"))
	require.True(t, errors.Is(err, store.ErrTableUnavailable))

	require.NoError(t, table.CreateTable(ctx))
	require.NoError(t, table.CreateTable(ctx))
	count, err := table.ChunkCount(ctx, store.NewKey("job_state", "x"))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDualOverDynamo(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamoDB(testTable)
	dual := store.NewDual[string](store.NewChunkedTable(New(fake, testTable)), store.NewMemoryLocalStore(), codec.Gob[string]{})
	key := dual.BuildKey("mcp_state", "MASTER")

	require.NoError(t, dual.Save(ctx, []store.Entry[string]{{Key: key, Value: "running"}}))
	restored, err := dual.Restore(ctx, []store.Key{key, dual.BuildKey("mcp_state", "other")})
	require.NoError(t, err)
	assert.Equal(t, map[store.Key]string{key: "running"}, restored)
}
