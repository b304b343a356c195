package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for storefront store operations.
type Metrics struct {
	Logins            prometheus.Counter
	Registrations     prometheus.Counter
	BagAdds           prometheus.Counter
	BagAddRollbacks   prometheus.Counter
	FavoriteToggles   prometheus.Counter
	FavoriteRollbacks prometheus.Counter
	RemoteFailures    *prometheus.CounterVec
	HydratedLines     prometheus.Counter
	HydrationFailures prometheus.Counter
}

// New registers and returns storefront metrics collectors.
func New() *Metrics {
	return &Metrics{
		Logins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atelier_logins_total",
			Help: "Total number of successful logins",
		}),
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atelier_registrations_total",
			Help: "Total number of successful registrations",
		}),
		BagAdds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atelier_bag_adds_total",
			Help: "Total number of bag add operations applied locally",
		}),
		BagAddRollbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atelier_bag_add_rollbacks_total",
			Help: "Total number of bag adds rolled back after a remote failure",
		}),
		FavoriteToggles: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atelier_favorite_toggles_total",
			Help: "Total number of favorite toggles applied locally",
		}),
		FavoriteRollbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atelier_favorite_toggle_rollbacks_total",
			Help: "Total number of favorite toggles reverted after a remote failure",
		}),
		RemoteFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "atelier_remote_failures_total",
			Help: "Total number of failed remote calls by operation",
		}, []string{"operation"}),
		HydratedLines: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atelier_hydrated_bag_lines_total",
			Help: "Total number of bag lines hydrated from remote product records",
		}),
		HydrationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "atelier_hydration_failures_total",
			Help: "Total number of per-product hydration fetches that failed and were skipped",
		}),
	}
}
