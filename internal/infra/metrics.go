package infra

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	TransfersCompleted prometheus.Counter
	OffersPlaced       prometheus.Counter
	OffersAccepted     prometheus.Counter
	FraudAlertsRaised  prometheus.Counter
	RiskScore          prometheus.Histogram
	OutboxPending      prometheus.Gauge
}

// NewMetrics registers all instruments on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "transfermarket_http_requests_total",
			Help: "Total HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transfermarket_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "transfermarket_transfers_completed_total",
			Help: "Transfers that reached the completed state.",
		}),
		OffersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "transfermarket_offers_placed_total",
			Help: "Offers created by buying clubs.",
		}),
		OffersAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "transfermarket_offers_accepted_total",
			Help: "Offers accepted by selling clubs.",
		}),
		FraudAlertsRaised: factory.NewCounter(prometheus.CounterOpts{
			Name: "transfermarket_fraud_alerts_total",
			Help: "Fraud alerts persisted after offer evaluation.",
		}),
		RiskScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transfermarket_fraud_risk_score",
			Help:    "Distribution of computed risk scores.",
			Buckets: []float64{0, 2, 5, 10, 15, 20, 30, 50, 100},
		}),
		OutboxPending: factory.NewGauge(prometheus.GaugeOpts{
			Name: "transfermarket_outbox_pending_events",
			Help: "Unpublished rows in the event outbox.",
		}),
	}
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
