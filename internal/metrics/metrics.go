// Package metrics exposes Prometheus collectors for ledger commands and the
// derived dashboard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/splitledger/internal/report"
)

const namespace = "splitledger"

// Metrics holds the registered collectors. A nil *Metrics records nothing.
type Metrics struct {
	commands     *prometheus.CounterVec
	participants prometheus.Gauge
	expenses     prometheus.Gauge
	transfers    prometheus.Gauge
	outstanding  prometheus.Gauge
	recompute    prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands handled, by command and result code.",
		}, []string{"command", "result"}),
		participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Participants in the ledger.",
		}),
		expenses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expenses",
			Help:      "Expenses in the ledger.",
		}),
		transfers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Transfers in the current settlement plan.",
		}),
		outstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outstanding_amount",
			Help:      "Total amount the current settlement plan moves.",
		}),
		recompute: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_seconds",
			Help:      "Time spent rebuilding the dashboard.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	reg.MustRegister(m.commands, m.participants, m.expenses, m.transfers, m.outstanding, m.recompute)
	return m
}

// ObserveCommand counts one handled command.
func (m *Metrics) ObserveCommand(command, result string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, result).Inc()
}

// ObserveDashboard records the size of a freshly built dashboard.
func (m *Metrics) ObserveDashboard(d report.Dashboard, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.participants.Set(float64(len(d.Participants)))
	m.expenses.Set(float64(len(d.Expenses)))
	m.transfers.Set(float64(len(d.Settlements)))
	outstanding, _ := d.Outstanding.Float64()
	m.outstanding.Set(outstanding)
	m.recompute.Observe(elapsed.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
