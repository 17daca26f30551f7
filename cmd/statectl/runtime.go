package main

import (
	"context"
	"net/http"

	"github.com/RuiFG/streaming/streaming-state/codec"
	"github.com/RuiFG/streaming/streaming-state/config"
	"github.com/RuiFG/streaming/streaming-state/log"
	"github.com/RuiFG/streaming/streaming-state/metrics"
	"github.com/RuiFG/streaming/streaming-state/store"
	"github.com/RuiFG/streaming/streaming-state/store/dynamo"
	"github.com/RuiFG/streaming/streaming-state/store/fs"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
)

// runtime holds what a single command invocation needs.
type runtime struct {
	logger      log.Logger
	application config.Application
	metrics     *metrics.Metrics
	server      *http.Server
	table       *dynamo.Table
	remote      *store.ChunkedTable
	openLocal   func() (store.LocalStore, error)
	closers     []func() error
}

// openRuntime is replaced in tests to run commands against memory stores.
var openRuntime = newRuntime

func newRuntime() (*runtime, error) {
	application, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	level := log.InfoLevel
	if application.Debug {
		level = log.DebugLevel
	}
	log.Setup(log.DefaultOptions().WithOutputEncoder(log.ConsoleOutputEncoder).WithLevel(level))

	r := &runtime{logger: log.Global().Named("statectl"), application: application}
	switch profileArg {
	case "":
	case "cpu":
		stop := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
		r.closers = append(r.closers, func() error { stop.Stop(); return nil })
	case "mem":
		stop := profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
		r.closers = append(r.closers, func() error { stop.Stop(); return nil })
	default:
		return nil, errors.Errorf("unknown profile %q, want cpu or mem", profileArg)
	}

	r.metrics = metrics.New(metrics.Options{
		Prefix:         application.Metrics.Prefix,
		ReportInterval: application.Metrics.ReportInterval,
		Prometheus:     application.Metrics.ListenAddr != "",
	})
	r.closers = append(r.closers, r.metrics.Close)
	if r.metrics.Handler != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", r.metrics.Handler)
		r.server = &http.Server{Addr: application.Metrics.ListenAddr, Handler: mux}
		go func() {
			if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				r.logger.Warnw("metrics server stopped", "err", err)
			}
		}()
		r.closers = append(r.closers, func() error { return r.server.Shutdown(context.Background()) })
	}

	client, err := dynamo.NewClient(dynamo.ClientOptions{
		Region:     application.Remote.Region,
		Endpoint:   application.Remote.Endpoint,
		MaxRetries: application.Remote.MaxRetries,
	})
	if err != nil {
		r.close()
		return nil, err
	}
	tableName := application.Remote.Table
	if tableName == "" {
		tableName = dynamo.TableName(application.Name)
	}
	r.table = dynamo.New(client, tableName)
	r.remote = store.NewChunkedTable(r.table, store.WithFetchConcurrency(application.Remote.FetchConcurrency))
	r.openLocal = func() (store.LocalStore, error) {
		return fs.Open(fs.Options{
			Dir:         application.Local.Dir,
			Bucket:      application.Local.Bucket,
			SegmentSize: application.Local.SegmentSize,
		})
	}
	return r, nil
}

// dual opens the local store and pairs it with the remote table.
func (r *runtime) dual() (*store.Dual[[]byte], error) {
	local, err := r.openLocal()
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, local.Cleanup)
	return store.NewDual[[]byte](r.remote, local, codec.Raw{},
		store.WithLogger(log.Global().Named("state.dual")),
		store.WithScope(r.metrics.Scope)), nil
}

// close runs the closers in reverse order.
func (r *runtime) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.logger.Warnw("failed to release resource", "err", err)
		}
	}
	r.closers = nil
}
