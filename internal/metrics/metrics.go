// Package metrics exposes Prometheus metrics of the event planner.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace for all event planner metrics
const namespace = "eventplanner"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// RSVPSubmissionsTotal counts applied RSVP submissions by status
var RSVPSubmissionsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rsvp_submissions_total",
		Help:      "Total number of applied RSVP submissions",
	},
	[]string{"status"},
)

// RSVPRejectionsTotal counts RSVP submissions refused by the engine
var RSVPRejectionsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rsvp_rejections_total",
		Help:      "Total number of rejected RSVP submissions",
	},
	[]string{"reason"}, // reason: validation|not_found|deadline
)

// EventMutationsTotal counts successful event catalog mutations
var EventMutationsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_mutations_total",
		Help:      "Total number of event create, update and delete operations",
	},
	[]string{"operation"},
)

// Init registers the Go runtime and process collectors
func Init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
