// Package fs is the nutsdb backed local mirror of the state store.
package fs

import (
	"context"
	"sync"

	"github.com/RuiFG/streaming/streaming-state/common/status"
	"github.com/RuiFG/streaming/streaming-state/log"
	"github.com/RuiFG/streaming/streaming-state/store"
	"github.com/pkg/errors"
	"github.com/xujiajun/nutsdb"
)

const DefaultBucket = "state"

type Options struct {
	Dir    string
	Bucket string
	//nutsdb segment size, must exceed the largest encoded state
	SegmentSize int64
}

func DefaultOptions(dir string) Options {
	return Options{
		Dir:         dir,
		Bucket:      DefaultBucket,
		SegmentSize: 64 * nutsdb.MB,
	}
}

type localStore struct {
	logger log.Logger
	mutex  *sync.RWMutex
	status status.Status
	db     *nutsdb.DB
	bucket string
}

// Open opens, or creates, the nutsdb directory in options.Dir.
func Open(options Options) (store.LocalStore, error) {
	if options.Dir == "" {
		return nil, errors.New("local state dir should not be empty")
	}
	if options.Bucket == "" {
		options.Bucket = DefaultBucket
	}
	opts := nutsdb.DefaultOptions
	opts.Dir = options.Dir
	if options.SegmentSize > 0 {
		opts.SegmentSize = options.SegmentSize
	}
	db, err := nutsdb.Open(opts)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to open local state in %s", options.Dir)
	}
	return &localStore{
		logger: log.Global().Named("state.fs"),
		mutex:  &sync.RWMutex{},
		status: status.Running,
		db:     db,
		bucket: options.Bucket,
	}, nil
}

func (l *localStore) Restore(_ context.Context, keys []store.Key) (map[store.Key][]byte, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	if !l.status.Running() {
		return nil, store.ErrClosed
	}
	for _, key := range keys {
		if err := key.Validate(); err != nil {
			return nil, err
		}
	}
	restored := make(map[store.Key][]byte, len(keys))
	if len(keys) == 0 {
		return restored, nil
	}
	if err := l.db.View(func(tx *nutsdb.Tx) error {
		for _, key := range keys {
			entry, err := tx.Get(l.bucket, []byte(key.String()))
			if absent(err) {
				continue
			} else if err != nil {
				return errors.WithMessagef(err, "failed to get %s", key)
			}
			restored[key] = append([]byte{}, entry.Value...)
		}
		return nil
	}); err != nil {
		return nil, errors.WithMessagef(err, "failed to restore local state from bucket %s", l.bucket)
	}
	l.logger.Debugw("restored local state", "requested", len(keys), "found", len(restored))
	return restored, nil
}

// absent reports the errors nutsdb uses for a key or bucket that was never written.
func absent(err error) bool {
	return errors.Is(err, nutsdb.ErrKeyNotFound) ||
		errors.Is(err, nutsdb.ErrNotFoundKey) ||
		errors.Is(err, nutsdb.ErrBucketNotFound)
}

func (l *localStore) Save(_ context.Context, entries []store.RawEntry) error {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	if !l.status.Running() {
		return store.ErrClosed
	}
	if len(entries) == 0 {
		return nil
	}
	for _, entry := range entries {
		if err := entry.Key.Validate(); err != nil {
			return err
		}
	}
	if err := l.db.Update(func(tx *nutsdb.Tx) error {
		for _, entry := range entries {
			if err := tx.Put(l.bucket, []byte(entry.Key.String()), entry.Value, 0); err != nil {
				return errors.WithMessagef(err, "failed to put %s", entry.Key)
			}
		}
		return nil
	}); err != nil {
		return errors.WithMessagef(err, "failed to save local state into bucket %s", l.bucket)
	}
	return nil
}

// Cleanup closes the database. Calling it again is a no-op.
func (l *localStore) Cleanup() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if !status.CAP(&l.status, status.Running, status.Closed) {
		return nil
	}
	if err := l.db.Close(); err != nil {
		return errors.WithMessage(err, "failed to close local state")
	}
	return nil
}
