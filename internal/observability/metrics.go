package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// TurnsTotal counts processed dialogue turns by the state the
	// session was in when the turn arrived.
	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialogue_turns_total",
			Help: "Dialogue turns processed, labeled by session state.",
		},
		[]string{"state"},
	)

	// GenerationRequests counts calls to the text-generation
	// collaborator by outcome (ok / error).
	GenerationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_total",
			Help: "Text generation requests, labeled by outcome.",
		},
		[]string{"outcome"},
	)

	// GenerationDuration observes generation call latency.
	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Latency of text generation calls.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(TurnsTotal, GenerationRequests, GenerationDuration)
}
