// Package metrics exposes the engine's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActivitiesLogged counts activity log appends.
	ActivitiesLogged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "takeaction_activities_logged_total",
		Help: "Number of activities appended to the log.",
	})

	// DecayPointsApplied counts the total points removed by decay evaluation.
	DecayPointsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "takeaction_decay_points_applied_total",
		Help: "Total points removed from stats by decay catch-up.",
	})

	// DecayEvaluations counts evaluation passes (ticker or on demand).
	DecayEvaluations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "takeaction_decay_evaluations_total",
		Help: "Number of decay evaluation passes.",
	})

	// SnapshotSaveErrors counts failed snapshot save cycles. Saves are
	// fire-and-forget, so this is the only place failures surface besides
	// the log.
	SnapshotSaveErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "takeaction_snapshot_save_errors_total",
		Help: "Number of snapshot save cycles that failed.",
	})
)
