// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the server's collectors so tests can use a private registry.
type Metrics struct {
	RPCRequests         *prometheus.CounterVec
	RPCDuration         *prometheus.HistogramVec
	SettlementWarnings  prometheus.Counter
	SettlementsCreated  prometheus.Counter
	MaterializedCharges prometheus.Counter
	MissingRates        *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "duoledger",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "duoledger",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		SettlementWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "duoledger",
			Name:      "settlement_clamped_total",
			Help:      "Historical settlements clamped to the current debt.",
		}),
		SettlementsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "duoledger",
			Name:      "settlements_created_total",
			Help:      "Settlement transactions written by settle up.",
		}),
		MaterializedCharges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "duoledger",
			Name:      "subscription_charges_total",
			Help:      "Transactions materialized from subscriptions.",
		}),
		MissingRates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "duoledger",
			Name:      "missing_rate_total",
			Help:      "Ledger reads that met a currency without a rate.",
		}, []string{"currency"}),
	}
	reg.MustRegister(
		m.RPCRequests,
		m.RPCDuration,
		m.SettlementWarnings,
		m.SettlementsCreated,
		m.MaterializedCharges,
		m.MissingRates,
	)
	return m
}

// NewNop returns collectors registered nowhere.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
