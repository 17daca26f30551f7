// Package chunk splits encoded state into pieces that fit a remote item size
// limit and joins them back.
package chunk

import (
	"github.com/pkg/errors"
)

// Limit is the largest payload of a single chunk, kept under the 400KB item
// ceiling of the remote table.
const Limit = 400000

var ErrCorruptObject = errors.New("corrupt object")

// Count returns how many chunks a payload of size bytes needs.
func Count(size, limit int) int {
	if limit <= 0 {
		panic("chunk: limit must be positive")
	}
	return (size + limit - 1) / limit
}

// Split cuts data into Count(len(data), limit) sub-slices of at most limit
// bytes. The slices share memory with data; empty data yields no chunks.
func Split(data []byte, limit int) [][]byte {
	chunks := make([][]byte, 0, Count(len(data), limit))
	for offset := 0; offset < len(data); offset += limit {
		end := offset + limit
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[offset:end:end])
	}
	return chunks
}

// Join concatenates chunks in index order. A nil entry means the chunk at
// that index was never fetched, which fails with ErrCorruptObject.
func Join(chunks [][]byte) ([]byte, error) {
	size := 0
	for index, c := range chunks {
		if c == nil {
			return nil, errors.Wrapf(ErrCorruptObject, "chunk %d of %d is missing", index, len(chunks))
		}
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range chunks {
		data = append(data, c...)
	}
	return data, nil
}
