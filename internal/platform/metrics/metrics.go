package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	ProposalsSubmitted     prometheus.Counter
	VotesCast              *prometheus.CounterVec
	DuplicateVotesRejected prometheus.Counter
	AuditEntriesRecorded   prometheus.Counter
	RequestDuration        *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ProposalsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "council_proposals_submitted_total",
			Help: "Total number of proposals submitted",
		}),
		VotesCast: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "council_votes_cast_total",
			Help: "Total number of votes cast, by choice",
		}, []string{"choice"}),
		DuplicateVotesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "council_duplicate_votes_rejected_total",
			Help: "Total number of votes rejected by the one-vote-per-actor invariant",
		}),
		AuditEntriesRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "council_audit_entries_total",
			Help: "Total number of audit entries appended to the log",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "council_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

func (m *Metrics) IncProposalsSubmitted() {
	if m != nil {
		m.ProposalsSubmitted.Inc()
	}
}

func (m *Metrics) IncVotesCast(choice string) {
	if m != nil {
		m.VotesCast.WithLabelValues(choice).Inc()
	}
}

func (m *Metrics) IncDuplicateVotesRejected() {
	if m != nil {
		m.DuplicateVotesRejected.Inc()
	}
}

func (m *Metrics) IncAuditEntriesRecorded() {
	if m != nil {
		m.AuditEntriesRecorded.Inc()
	}
}

func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, status).Observe(seconds)
	}
}
