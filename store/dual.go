package store

import (
	"context"

	"github.com/RuiFG/streaming/streaming-state/codec"
	"github.com/RuiFG/streaming/streaming-state/common/safe"
	"github.com/RuiFG/streaming/streaming-state/log"
	"github.com/pkg/errors"
	"github.com/uber-go/tally/v4"
	"go.uber.org/multierr"
)

const (
	remoteBranch = "remote"
	localBranch  = "local"
)

type Entry[T any] struct {
	Key   Key
	Value T
}

type DualOption func(*dualOptions)

type dualOptions struct {
	logger log.Logger
	scope  tally.Scope
}

func WithLogger(logger log.Logger) DualOption {
	return func(o *dualOptions) { o.logger = logger }
}

func WithScope(scope tally.Scope) DualOption {
	return func(o *dualOptions) { o.scope = scope }
}

// Dual mirrors every save to the remote table and the local store and
// restores from both, preferring the remote value when both have one.
//
// Each call runs the two stores as independent branches and returns only
// after both finished. Nothing is shared between calls.
type Dual[T any] struct {
	logger  log.Logger
	metrics *dualMetrics
	remote  *ChunkedTable
	local   LocalStore
	codec   codec.Codec[T]
}

func NewDual[T any](remote *ChunkedTable, local LocalStore, c codec.Codec[T], opts ...DualOption) *Dual[T] {
	options := &dualOptions{
		logger: log.Global().Named("state.dual"),
		scope:  tally.NoopScope,
	}
	for _, opt := range opts {
		opt(options)
	}
	return &Dual[T]{
		logger:  options.logger,
		metrics: newDualMetrics(options.scope),
		remote:  remote,
		local:   local,
		codec:   c,
	}
}

// BuildKey builds the key of an entry of the given type.
func (d *Dual[T]) BuildKey(typ, id string) Key {
	return NewKey(typ, id)
}

// Save persists every entry in both stores. A failure of either branch fails
// the call once both are done; the branch that succeeded is not rolled back.
// Later entries win over earlier ones with the same key.
func (d *Dual[T]) Save(ctx context.Context, entries []Entry[T]) error {
	defer d.metrics.saveLatency.Start().Stop()
	raw := make([]RawEntry, 0, len(entries))
	for _, entry := range entries {
		if err := entry.Key.Validate(); err != nil {
			return err
		}
		data, err := d.codec.Encode(entry.Value)
		if err != nil {
			return errors.WithMessagef(err, "failed to encode %s", entry.Key)
		}
		raw = append(raw, RawEntry{Key: entry.Key, Value: data})
	}
	d.metrics.saveKeys.Inc(int64(len(raw)))

	remoteDone := safe.GoWithMessage(func() error {
		return d.saveRemote(ctx, raw)
	}, "remote branch")
	localDone := safe.GoWithMessage(func() error {
		return d.local.Save(ctx, raw)
	}, "local branch")
	remoteErr, localErr := <-remoteDone, <-localDone

	d.report("save", remoteErr, localErr)
	d.logger.Debugw("saved state", "keys", len(raw))
	return multierr.Combine(remoteErr, localErr)
}

func (d *Dual[T]) saveRemote(ctx context.Context, entries []RawEntry) error {
	for _, entry := range entries {
		if err := d.remote.ReplaceObject(ctx, entry.Key, entry.Value); err != nil {
			return err
		}
	}
	return nil
}

// Restore returns the values of the requested keys that exist in either
// store. Keys missing from both are left out of the result.
func (d *Dual[T]) Restore(ctx context.Context, keys []Key) (map[Key]T, error) {
	defer d.metrics.restoreLatency.Start().Stop()
	if err := validateKeys(keys); err != nil {
		return nil, err
	}
	keys = uniqueKeys(keys)
	d.metrics.restoreKeys.Inc(int64(len(keys)))

	var remote, local map[Key]T
	remoteDone := safe.GoWithMessage(func() (err error) {
		remote, err = d.restoreRemote(ctx, keys)
		return err
	}, "remote branch")
	localDone := safe.GoWithMessage(func() (err error) {
		local, err = d.restoreLocal(ctx, keys)
		return err
	}, "local branch")
	remoteErr, localErr := <-remoteDone, <-localDone

	d.report("restore", remoteErr, localErr)
	if err := multierr.Combine(remoteErr, localErr); err != nil {
		return nil, err
	}

	merged := make(map[Key]T, len(keys))
	for key, value := range local {
		merged[key] = value
	}
	for key, value := range remote {
		merged[key] = value
	}

	fallbacks := 0
	for key := range local {
		if _, ok := remote[key]; !ok {
			fallbacks++
			d.logger.Infow("restored from local store", "key", key.String())
		}
	}
	d.metrics.remoteHits.Inc(int64(len(remote)))
	d.metrics.localHits.Inc(int64(fallbacks))
	d.metrics.misses.Inc(int64(len(keys) - len(merged)))
	d.logger.Debugw("restored state", "keys", len(keys), "found", len(merged))
	return merged, nil
}

func (d *Dual[T]) restoreRemote(ctx context.Context, keys []Key) (map[Key]T, error) {
	restored := make(map[Key]T, len(keys))
	for _, key := range keys {
		data, ok, err := d.remote.GetObject(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if restored[key], err = d.codec.Decode(data); err != nil {
			return nil, errors.WithMessagef(err, "failed to decode remote %s", key)
		}
	}
	return restored, nil
}

func (d *Dual[T]) restoreLocal(ctx context.Context, keys []Key) (map[Key]T, error) {
	raw, err := d.local.Restore(ctx, keys)
	if err != nil {
		return nil, err
	}
	restored := make(map[Key]T, len(raw))
	for key, data := range raw {
		if restored[key], err = d.codec.Decode(data); err != nil {
			return nil, errors.WithMessagef(err, "failed to decode local %s", key)
		}
	}
	return restored, nil
}

// Cleanup releases the local store. The remote table needs no teardown.
func (d *Dual[T]) Cleanup() error {
	return d.local.Cleanup()
}

func (d *Dual[T]) report(op string, remoteErr, localErr error) {
	if remoteErr != nil {
		d.metrics.failed(op, remoteBranch)
		d.logger.Warnw("state branch failed", "op", op, "branch", remoteBranch, "err", remoteErr)
	}
	if localErr != nil {
		d.metrics.failed(op, localBranch)
		d.logger.Warnw("state branch failed", "op", op, "branch", localBranch, "err", localErr)
	}
}
