// Package metrics provides Prometheus observability metrics for the lead router.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// Assignment outcomes used as the "outcome" label.
const (
	OutcomeAssigned   = "assigned"
	OutcomeUnassigned = "unassigned"
	OutcomeRegistrant = "registrant"
)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// LeadsScoredTotal counts evaluated leads by resulting tier.
var LeadsScoredTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "router",
	Name:      "leads_scored_total",
	Help:      "Total leads scored, by classification tier",
}, []string{"tier"})

// AssignmentsTotal counts routing decisions by tier and outcome.
// High unassigned counts mean a tier is understaffed.
var AssignmentsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "router",
	Name:      "assignments_total",
	Help:      "Routing decisions by tier and outcome (assigned, unassigned, registrant)",
}, []string{"tier", "outcome"})

// RegistrantMissingTotal counts informational leads whose registrant is not in the directory.
var RegistrantMissingTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "router",
	Name:      "registrant_missing_total",
	Help:      "Informational leads routed to a registrant unknown to the agent directory",
})

// AgentsBusy tracks agents currently BUSY, by tier.
var AgentsBusy = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "router",
	Name:      "agents_busy",
	Help:      "Number of agents currently handling a lead",
}, []string{"tier"})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// AssignmentConflictsTotal counts lost compare-and-swap races during assignment.
var AssignmentConflictsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "router",
	Name:      "assignment_conflicts_total",
	Help:      "Candidate selections retried because the chosen agent changed concurrently",
})

// OperatorActionsTotal counts extend and release calls by result.
var OperatorActionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "router",
	Name:      "operator_actions_total",
	Help:      "Manual extend/release actions by result",
}, []string{"action", "result"})

// AssignmentDurationSeconds tracks time spent in the assignment engine.
var AssignmentDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "router",
	Name:      "assignment_duration_seconds",
	Help:      "Time taken to select and reserve an agent",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total CSV lead records successfully parsed",
})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to parse CSV input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// =============================================================================
// Helper Functions
// =============================================================================

// ObserveBoard sets the busy gauges from per-tier counts. Tiers missing from
// busy are reset to zero.
func ObserveBoard(busy map[string]int) {
	AgentsBusy.Reset()
	for tier, n := range busy {
		AgentsBusy.WithLabelValues(tier).Set(float64(n))
	}
}
