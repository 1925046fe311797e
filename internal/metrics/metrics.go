package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_transitions_total",
		Help: "Incident transition attempts by source status, target status and result",
	}, []string{"from", "to", "result"})
	MatchAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_match_attempts_total",
		Help: "Matcher calls by outcome (found, not_found, error)",
	}, []string{"outcome"})
	MatchDistanceKm = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_match_distance_km",
		Help:    "Distance to the selected resource in kilometers",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 50},
	})
	HubSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_hub_subscribers",
		Help: "Currently connected fan-out subscribers",
	})
	HubEventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_hub_events_published_total",
		Help: "Events published to the fan-out hub by entity",
	}, []string{"entity"})
	HubSlowSubscribersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_hub_slow_subscribers_total",
		Help: "Subscribers disconnected because their buffer was full",
	})
	LocationSamplesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_location_samples_total",
		Help: "Location samples by handling result (persisted, coalesced, failed)",
	}, []string{"result"})
	PendingRetriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_pending_retries_total",
		Help: "Re-dispatch attempts for pending incidents by outcome",
	}, []string{"outcome"})
	WebhookDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_webhook_deliveries_total",
		Help: "Webhook deliveries by result (delivered, failed, skipped)",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(TransitionsTotal)
	prometheus.MustRegister(MatchAttemptsTotal)
	prometheus.MustRegister(MatchDistanceKm)
	prometheus.MustRegister(HubSubscribers)
	prometheus.MustRegister(HubEventsPublishedTotal)
	prometheus.MustRegister(HubSlowSubscribersTotal)
	prometheus.MustRegister(LocationSamplesTotal)
	prometheus.MustRegister(PendingRetriesTotal)
	prometheus.MustRegister(WebhookDeliveriesTotal)
}

// Handler отдаёт метрики в формате Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
