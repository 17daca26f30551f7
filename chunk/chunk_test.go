package chunk

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count(0, Limit))
	assert.Equal(t, 1, Count(1, Limit))
	assert.Equal(t, 1, Count(Limit, Limit))
	assert.Equal(t, 2, Count(Limit+1, Limit))
	assert.Equal(t, 3, Count(900001, Limit))
	assert.Panics(t, func() { Count(10, 0) })
}

func TestSplitAndJoin(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 90001)
	chunks := Split(data, Limit)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], Limit)
	assert.Len(t, chunks[1], Limit)
	assert.Len(t, chunks[2], 900010-2*Limit)

	joined, err := Join(chunks)
	require.NoError(t, err)
	assert.Equal(t, data, joined)
}

func TestSplitEmpty(t *testing.T) {
	assert.Empty(t, Split(nil, Limit))
	assert.Empty(t, Split([]byte{}, Limit))

	joined, err := Join(nil)
	require.NoError(t, err)
	assert.Empty(t, joined)
}

func TestSplitDoesNotAliasAppends(t *testing.T) {
	data := []byte("abcdef")
	chunks := Split(data, 4)
	require.Len(t, chunks, 2)
	_ = append(chunks[0], 'X')
	assert.Equal(t, []byte("abcdef"), data)
}

func TestJoinMissingChunk(t *testing.T) {
	_, err := Join([][]byte{[]byte("a"), nil, []byte("c")})
	assert.True(t, errors.Is(err, ErrCorruptObject))
	assert.Contains(t, err.Error(), "chunk 1 of 3")
}
