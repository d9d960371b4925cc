// Package metrics exposes counters for the loop runner.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Retention counts what the retention loop has done since start.
type Retention struct {
	// collection passes completed, successful or not
	Passes prometheus.Counter

	// artifacts reclaimed (blob and record gone)
	Reclaimed prometheus.Counter

	// per-item failures left for a later pass
	Failed prometheus.Counter
}

func NewRetention(reg prometheus.Registerer) *Retention {
	factory := promauto.With(reg)
	return &Retention{
		Passes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "picket",
			Subsystem: "retention",
			Name:      "passes_total",
			Help:      "collection passes run since start",
		}),
		Reclaimed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "picket",
			Subsystem: "retention",
			Name:      "reclaimed_total",
			Help:      "artifacts reclaimed since start",
		}),
		Failed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "picket",
			Subsystem: "retention",
			Name:      "failed_total",
			Help:      "per-item reclaim failures since start",
		}),
	}
}

// Serve exposes /metrics on the port. Blocks.
func Serve(port int32, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
