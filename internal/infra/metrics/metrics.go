// Package metrics exposes the companion's Prometheus counters and the
// decorators that feed them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fitness_companion"

var (
	effectsFiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "effects_fired_total",
			Help:      "Effect handlers invoked, by effect.",
		},
		[]string{"effect"},
	)

	duplicateEffectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_effects_suppressed_total",
			Help:      "Effects skipped because their key was already in the idempotency ledger.",
		},
	)

	ledgerErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_errors_total",
			Help:      "Idempotency ledger operations that returned an error.",
		},
		[]string{"operation"},
	)

	staleSnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_snapshots_discarded_total",
			Help:      "Fetch results discarded because a newer snapshot was already applied.",
		},
		[]string{"kind"},
	)

	pollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Completed polls, by kind.",
		},
		[]string{"kind"},
	)

	fetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Polls that failed to fetch remote state, by kind.",
		},
		[]string{"kind"},
	)

	messagesSuppressedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_suppressed_total",
			Help:      "User-facing messages suppressed by the deduper, by severity.",
		},
		[]string{"severity"},
	)
)

// ObservePoll records the outcome of one poll for kind.
func ObservePoll(kind string, stale bool, err error) {
	if err != nil {
		fetchFailuresTotal.WithLabelValues(kind).Inc()
		return
	}
	pollsTotal.WithLabelValues(kind).Inc()
	if stale {
		staleSnapshotsTotal.WithLabelValues(kind).Inc()
	}
}
