package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"courier-dispatch/internal/dispatch"
)

// DispatchRecorder reports dispatch engine activity to Prometheus.
type DispatchRecorder struct {
	offers      prometheus.Counter
	resolutions *prometheus.CounterVec
	sessions    *prometheus.CounterVec
	duration    prometheus.Histogram
	candidates  prometheus.Histogram
}

var _ dispatch.Recorder = (*DispatchRecorder)(nil)

// NewDispatchRecorder creates the dispatch collectors. Register them with Collectors.
func NewDispatchRecorder() *DispatchRecorder {
	return &DispatchRecorder{
		offers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_offers_total",
			Help: "Total number of delivery offers pushed to couriers",
		}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_offer_resolutions_total",
			Help: "Delivery offers by outcome",
		}, []string{"outcome"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_sessions_total",
			Help: "Finished dispatch sessions by final state",
		}, []string{"state"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_session_duration_seconds",
			Help:    "Time from dispatch start to the final state",
			Buckets: []float64{0.1, 1, 5, 15, 30, 60, 120, 300, 600},
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_candidates",
			Help:    "Ranked candidates per dispatch",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
	}
}

// Collectors returns every collector for registration.
func (r *DispatchRecorder) Collectors() []prometheus.Collector {
	return []prometheus.Collector{r.offers, r.resolutions, r.sessions, r.duration, r.candidates}
}

// OfferSent counts a delivered offer.
func (r *DispatchRecorder) OfferSent() { r.offers.Inc() }

// OfferResolved counts how an offer ended.
func (r *DispatchRecorder) OfferResolved(outcome string) {
	r.resolutions.WithLabelValues(outcome).Inc()
}

// SessionFinished counts the final state and observes the session duration.
func (r *DispatchRecorder) SessionFinished(state dispatch.State, elapsed time.Duration) {
	r.sessions.WithLabelValues(string(state)).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// Candidates observes the ranked list size.
func (r *DispatchRecorder) Candidates(n int) { r.candidates.Observe(float64(n)) }
