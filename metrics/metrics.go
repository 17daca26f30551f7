// Package metrics builds the tally root scope of the process and, when
// asked, a Prometheus endpoint for it.
package metrics

import (
	"io"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/uber-go/tally/v4"
	"github.com/uber-go/tally/v4/prometheus"
)

type Options struct {
	Prefix         string
	ReportInterval time.Duration
	//expose the scope through Handler
	Prometheus bool
}

type Metrics struct {
	Scope tally.Scope
	//nil unless Prometheus is enabled
	Handler http.Handler
	closer  io.Closer
}

func (m *Metrics) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}

func New(options Options) *Metrics {
	if !options.Prometheus {
		return &Metrics{Scope: tally.NoopScope}
	}
	if options.ReportInterval <= 0 {
		options.ReportInterval = time.Second
	}
	registry := prom.NewRegistry()
	reporter := prometheus.NewReporter(prometheus.Options{
		Registerer:               registry,
		Gatherer:                 registry,
		DefaultTimerType:         prometheus.HistogramTimerType,
		DefaultHistogramBuckets:  prometheus.DefaultHistogramBuckets(),
		DefaultSummaryObjectives: prometheus.DefaultSummaryObjectives(),
	})
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:         options.Prefix,
		CachedReporter: reporter,
		Separator:      prometheus.DefaultSeparator,
	}, options.ReportInterval)
	return &Metrics{Scope: scope, Handler: reporter.HTTPHandler(), closer: closer}
}
