package metrics_test

import (
	"testing"

	"lead-router/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBoard(t *testing.T) {
	metrics.ObserveBoard(map[string]int{"POTENTIAL": 2, "SEMI_POTENTIAL": 1})
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.AgentsBusy.WithLabelValues("POTENTIAL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AgentsBusy.WithLabelValues("SEMI_POTENTIAL")))

	metrics.ObserveBoard(map[string]int{"POTENTIAL": 1})
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.AgentsBusy.WithLabelValues("POTENTIAL")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.AgentsBusy.WithLabelValues("SEMI_POTENTIAL")))
}

func TestRegistryGathers(t *testing.T) {
	metrics.LeadsScoredTotal.WithLabelValues("POTENTIAL").Inc()
	families, err := metrics.Registry.Gather()
	assert.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "router_leads_scored_total")
}
