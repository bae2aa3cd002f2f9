package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Reconciliation metrics
	ReconcilePasses   prometheus.Counter
	ReconcileDeferred prometheus.Counter
	ReconcileBlocked  *prometheus.CounterVec
	PredictedSpots    prometheus.Gauge
	SlotsAdded        prometheus.Counter
	SlotsRemoved      prometheus.Counter
	ResolutionDrops   prometheus.Counter

	// Ranking service metrics
	Notifications     *prometheus.CounterVec
	PredictionUpdates prometheus.Counter

	// Persistence metrics
	CacheWrites      prometheus.Counter
	CacheWriteErrors prometheus.Counter

	// Transport metrics
	WSConnections prometheus.Gauge
}

// New creates a metrics collector registered on its own registry. Keeping a
// private registry lets tests construct collectors without name collisions.
func New() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		ReconcilePasses: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotshelf_reconcile_passes_total",
			Help: "Total reconciliation passes applied",
		}),
		ReconcileDeferred: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotshelf_reconcile_deferred_total",
			Help: "Passes deferred behind in-flight slot removals",
		}),
		ReconcileBlocked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotshelf_reconcile_blocked_total",
			Help: "Passes suppressed by the interaction gate",
		}, []string{"state"}),
		PredictedSpots: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hotshelf_predicted_spots",
			Help: "Predicted slots currently filled",
		}),
		SlotsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotshelf_slots_added_total",
			Help: "Predicted slots materialized",
		}),
		SlotsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotshelf_slots_removed_total",
			Help: "Predicted slots removed",
		}),
		ResolutionDrops: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotshelf_resolution_drops_total",
			Help: "Prediction keys dropped as unresolvable",
		}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotshelf_ranking_notifications_total",
			Help: "Pin/Unpin notifications sent to the ranking service",
		}, []string{"action"}),
		PredictionUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotshelf_prediction_updates_total",
			Help: "Ranked prediction lists delivered by the service",
		}),
		CacheWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotshelf_cache_writes_total",
			Help: "Prediction cache writes",
		}),
		CacheWriteErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotshelf_cache_write_errors_total",
			Help: "Prediction cache write failures",
		}),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hotshelf_ws_connections",
			Help: "Connected shelf UI clients",
		}),
	}
	return m, reg
}
