package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the bank's prometheus collectors.
type Metrics struct {
	Transactions    *prometheus.CounterVec
	AccountsCreated prometheus.Counter
	Duration        prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clockstate",
			Subsystem: "ledger",
			Name:      "transactions_total",
			Help:      "Processed transactions by result.",
		}, []string{"result"}),
		AccountsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clockstate",
			Subsystem: "ledger",
			Name:      "accounts_created_total",
			Help:      "Accounts created through the system program.",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clockstate",
			Subsystem: "ledger",
			Name:      "transaction_seconds",
			Help:      "Transaction processing latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Transactions, m.AccountsCreated, m.Duration)
	}
	return m
}
