// Package metrics declares the Prometheus collectors ripd exposes on its
// diagnostics endpoint: rejection counters by reason, send/receive
// counters, and a table-size gauge. It mirrors the counter/gauge split
// used for liveness and routing telemetry elsewhere in this codebase's
// lineage (packet counters plus a small number of cardinality-bounded
// labels, never per-peer high-cardinality labels by default).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry groups the collectors for a single router instance. Each
// daemon process owns exactly one Registry; the scheduler writes into it,
// internal/diag serves it, and the routing table and codec never touch it.
type Registry struct {
	reg *prometheus.Registry

	PacketsSent       prometheus.Counter
	PacketsReceived   prometheus.Counter
	PacketsRejected   *prometheus.CounterVec
	PeriodicAdverts   prometheus.Counter
	TriggeredAdverts  prometheus.Counter
	RoutesExpired     prometheus.Counter
	RoutesCollected   prometheus.Counter
	TableSize         prometheus.Gauge
	SendFailures      prometheus.Counter
}

// New creates a Registry and registers all collectors against a fresh
// *prometheus.Registry, which callers expose via promhttp.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		PacketsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ripd",
			Name:      "packets_sent_total",
			Help:      "Response packets sent to neighbors.",
		}),
		PacketsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ripd",
			Name:      "packets_received_total",
			Help:      "Response packets accepted after decode and validation.",
		}),
		PacketsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ripd",
			Name:      "packets_rejected_total",
			Help:      "Response packets dropped, labeled by rejection reason.",
		}, []string{"reason"}),
		PeriodicAdverts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ripd",
			Name:      "periodic_advertisements_total",
			Help:      "Full periodic advertisement rounds sent.",
		}),
		TriggeredAdverts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ripd",
			Name:      "triggered_advertisements_total",
			Help:      "Triggered advertisement rounds sent due to table changes.",
		}),
		RoutesExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ripd",
			Name:      "routes_expired_total",
			Help:      "Routes transitioned from Active to ExpiredGarbage.",
		}),
		RoutesCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ripd",
			Name:      "routes_collected_total",
			Help:      "Routes removed from the table after the garbage timer elapsed.",
		}),
		TableSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ripd",
			Name:      "table_size",
			Help:      "Current number of entries in the routing table.",
		}),
		SendFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ripd",
			Name:      "send_failures_total",
			Help:      "Datagram sends that failed and were dropped.",
		}),
	}

	reg.MustRegister(
		r.PacketsSent,
		r.PacketsReceived,
		r.PacketsRejected,
		r.PeriodicAdverts,
		r.TriggeredAdverts,
		r.RoutesExpired,
		r.RoutesCollected,
		r.TableSize,
		r.SendFailures,
	)

	return r
}

// Registerer exposes the underlying registry so internal/diag can serve it.
func (r *Registry) Registerer() *prometheus.Registry {
	return r.reg
}

// RejectReason is the label used on PacketsRejected.
type RejectReason string

const (
	ReasonBadCommand      RejectReason = "bad_command"
	ReasonBadVersion      RejectReason = "bad_version"
	ReasonSelfLoop        RejectReason = "self_loop"
	ReasonNonzeroReserved RejectReason = "nonzero_reserved"
	ReasonBadMetric       RejectReason = "bad_metric"
	ReasonTruncated       RejectReason = "truncated"
	ReasonNoLearnedRoute  RejectReason = "no_learned_route"
)

// Reject increments the rejection counter for the given reason.
func (r *Registry) Reject(reason RejectReason) {
	r.PacketsRejected.WithLabelValues(string(reason)).Inc()
}
