package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	messagesSent *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec

	barsGenerated *prometheus.CounterVec
	shocks        *prometheus.CounterVec
	guardClamps   prometheus.Counter
	tradesOpened  *prometheus.CounterVec
	tradesClosed  *prometheus.CounterVec
	gateFailures  *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		messagesSent: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_messages_sent_total",
				Help: "Total number of messages sent to backend",
			},
			[]string{"backend", "symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cryptodash_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptodash_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		barsGenerated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_bars_generated_total",
				Help: "Total number of simulated bars generated",
			},
			[]string{"symbol", "regime"},
		),
		shocks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_shocks_total",
				Help: "Total number of shock events injected",
			},
			[]string{"kind"},
		),
		guardClamps: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cryptodash_guard_clamps_total",
				Help: "Total number of numeric guard clamps during generation",
			},
		),
		tradesOpened: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_trades_opened_total",
				Help: "Total number of trades opened",
			},
			[]string{"market"},
		),
		tradesClosed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_trades_closed_total",
				Help: "Total number of trades closed",
			},
			[]string{"market", "reason"},
		),
		gateFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptodash_gate_failures_total",
				Help: "Total number of risk gate failures during validation",
			},
			[]string{"gate"},
		),
	}
}

// RecordMessageSent records a message sent to a backend.
func (r *Recorder) RecordMessageSent(backend, symbol string) {
	r.messagesSent.WithLabelValues(backend, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordBarGenerated counts one generated bar.
func (r *Recorder) RecordBarGenerated(symbol, regime string) {
	r.barsGenerated.WithLabelValues(symbol, regime).Inc()
}

// RecordShock counts one injected shock event.
func (r *Recorder) RecordShock(kind string) {
	r.shocks.WithLabelValues(kind).Inc()
}

// RecordGuardClamp counts one numeric guard clamp.
func (r *Recorder) RecordGuardClamp() {
	r.guardClamps.Inc()
}

// RecordTradeOpened counts one opened trade.
func (r *Recorder) RecordTradeOpened(market string) {
	r.tradesOpened.WithLabelValues(market).Inc()
}

// RecordTradeClosed counts one closed trade by reason.
func (r *Recorder) RecordTradeClosed(market, reason string) {
	r.tradesClosed.WithLabelValues(market, reason).Inc()
}

// RecordGateFailure counts one failed risk gate.
func (r *Recorder) RecordGateFailure(gate string) {
	r.gateFailures.WithLabelValues(gate).Inc()
}
