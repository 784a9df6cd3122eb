// Package observability provides Prometheus metrics for the SDK's
// pipelines.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the SDK's Prometheus instruments.
type Metrics struct {
	// Mint pipeline
	MintsStarted      prometheus.Counter
	MintsConfirmed    prometheus.Counter
	MintFailures      *prometheus.CounterVec
	SlotCompensations prometheus.Counter
	SlotsGenerated    prometheus.Counter
	MintDuration      prometheus.Histogram

	// Trade pipeline
	TradesSubmitted *prometheus.CounterVec
	TradeFailures   *prometheus.CounterVec

	// Collaborator latency
	LedgerRequestDuration *prometheus.HistogramVec
	RestRequestDuration   *prometheus.HistogramVec
}

// NewMetrics registers and returns all instruments under namespace on the
// given registerer. A nil registerer uses the default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "xrplnft"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		MintsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mint",
			Name:      "started_total",
			Help:      "Mint attempts started",
		}),
		MintsConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mint",
			Name:      "confirmed_total",
			Help:      "Mints confirmed on-ledger with a derived token ID",
		}),
		MintFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mint",
			Name:      "failures_total",
			Help:      "Mint failures by error kind",
		}, []string{"kind"}),
		SlotCompensations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mint",
			Name:      "slot_compensations_total",
			Help:      "Compensating burn-and-retry branches taken",
		}),
		SlotsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mint",
			Name:      "slots_generated_total",
			Help:      "Mint slots purchased via burn payments",
		}),
		MintDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mint",
			Name:      "duration_seconds",
			Help:      "Wall time of one full mint pipeline",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		TradesSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "submitted_total",
			Help:      "Trade transactions submitted by type",
		}, []string{"type"}),
		TradeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trade",
			Name:      "failures_total",
			Help:      "Trade failures by error kind",
		}, []string{"kind"}),
		LedgerRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "request_duration_seconds",
			Help:      "Ledger command latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		RestRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rest",
			Name:      "request_duration_seconds",
			Help:      "REST endpoint latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}
