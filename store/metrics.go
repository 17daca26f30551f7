package store

import (
	"github.com/uber-go/tally/v4"
)

type dualMetrics struct {
	scope          tally.Scope
	saveKeys       tally.Counter
	restoreKeys    tally.Counter
	remoteHits     tally.Counter
	localHits      tally.Counter
	misses         tally.Counter
	saveLatency    tally.Timer
	restoreLatency tally.Timer
}

func newDualMetrics(scope tally.Scope) *dualMetrics {
	scope = scope.SubScope("state")
	return &dualMetrics{
		scope:          scope,
		saveKeys:       scope.Counter("save_keys"),
		restoreKeys:    scope.Counter("restore_keys"),
		remoteHits:     scope.Counter("restore_remote_hits"),
		localHits:      scope.Counter("restore_local_hits"),
		misses:         scope.Counter("restore_misses"),
		saveLatency:    scope.Timer("save_latency"),
		restoreLatency: scope.Timer("restore_latency"),
	}
}

func (m *dualMetrics) failed(op, branch string) {
	m.scope.Tagged(map[string]string{"op": op, "branch": branch}).Counter("errors").Inc(1)
}
