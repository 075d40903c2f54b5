// Package metrics registers the Prometheus instruments for the command
// path and both workers, all on the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TransactionsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payflow_transactions_accepted_total",
		Help: "Commands accepted with a fresh idempotency key.",
	})

	IdempotentReplays = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payflow_idempotent_replays_total",
		Help: "Commands answered from the idempotency cache.",
	})

	SettlementAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payflow_settlement_attempts_total",
		Help: "Settlement attempts by outcome.",
	}, []string{"outcome"})

	MalformedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payflow_malformed_events_total",
		Help: "Consumed messages skipped because they failed to deserialize.",
	}, []string{"topic"})

	ProjectionApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payflow_projection_applied_total",
		Help: "Status updates written to the read model.",
	})

	ProjectionStale = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payflow_projection_stale_total",
		Help: "Status updates skipped by the monotonic merge rule.",
	})
)

// Handler serves the default registry; mounted on /metrics by the API
// binary and on a dedicated listener by each worker.
func Handler() http.Handler {
	return promhttp.Handler()
}
