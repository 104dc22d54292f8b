package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the trade ledger.
type Metrics struct {
	// Ledger metrics
	TradesExecuted *prometheus.CounterVec
	TradeErrors    *prometheus.CounterVec
	TradeDuration  prometheus.Histogram
	TradeAmount    prometheus.Histogram

	// Catalog metrics
	AccountsCreated    prometheus.Counter
	InstrumentsCreated prometheus.Counter
	PriceUpdates       prometheus.Counter

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TradesExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeledger_trades_executed_total",
				Help: "Total number of trades executed by side",
			},
			[]string{"side"},
		),
		TradeErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeledger_trade_errors_total",
				Help: "Total number of trade failures by kind",
			},
			[]string{"kind"},
		),
		TradeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tradeledger_trade_duration_seconds",
			Help:    "Duration of trade executions",
			Buckets: prometheus.DefBuckets,
		}),
		TradeAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tradeledger_trade_amount",
			Help:    "Total amounts of executed trades",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tradeledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		InstrumentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tradeledger_instruments_created_total",
			Help: "Total number of instruments created",
		}),
		PriceUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tradeledger_price_updates_total",
			Help: "Total number of instrument price updates",
		}),
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradeledger_audit_logs_total",
				Help: "Total audit logs created by status",
			},
			[]string{"status"},
		),
	}
}
