// Package metrics exposes the collector's Prometheus instruments. All
// instruments register on the default registry and are served by the
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replay_events_ingested_total",
		Help: "Error events successfully recorded.",
	})

	EventsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replay_events_rejected_total",
		Help: "Error events rejected during ingestion.",
	})

	SpansIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replay_spans_ingested_total",
		Help: "Trace spans persisted into transactions.",
	})

	TransactionsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replay_transactions_ingested_total",
		Help: "Transactions reconstructed from trace exports.",
	})

	AlertsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replay_alerts_sent_total",
		Help: "Threshold alerts delivered to the webhook.",
	})
)
