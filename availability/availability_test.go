package availability_test

import (
	"testing"
	"time"

	"lead-router/availability"
	"lead-router/models"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestEligible(t *testing.T) {
	tests := map[string]struct {
		agent    models.Agent
		expected bool
	}{
		"FreeNoWindow":       {agent: models.Agent{State: models.StateFree}, expected: true},
		"FreeWindowElapsed":  {agent: models.Agent{State: models.StateFree, AvailableAgainAt: at(-time.Minute)}, expected: true},
		"FreeWindowEndsNow":  {agent: models.Agent{State: models.StateFree, AvailableAgainAt: at(0)}, expected: true},
		"FreeWindowPending":  {agent: models.Agent{State: models.StateFree, AvailableAgainAt: at(time.Minute)}, expected: false},
		"BusyWindowElapsed":  {agent: models.Agent{State: models.StateBusy, CurrentLeadID: "l1", AvailableAgainAt: at(-time.Hour)}, expected: false},
		"BusyNoWindow":       {agent: models.Agent{State: models.StateBusy, CurrentLeadID: "l1"}, expected: false},
		"ZeroStateIsNotFree": {agent: models.Agent{}, expected: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, availability.Eligible(tt.agent, now))
		})
	}
}

func TestMarkBusy(t *testing.T) {
	a := models.Agent{ID: "Marcelo", State: models.StateFree}
	availability.MarkBusy(&a, "lead-1", "Acme", now)

	assert.Equal(t, models.StateBusy, a.State)
	assert.Equal(t, "lead-1", a.CurrentLeadID)
	assert.Equal(t, "Acme", a.CurrentLeadName)
	assert.Equal(t, now, *a.LastAssignedAt)
	assert.Equal(t, now.Add(40*time.Minute), *a.AvailableAgainAt)
}

func TestExtend(t *testing.T) {
	tests := map[string]struct {
		window   *time.Time
		state    models.AvailabilityState
		expected time.Time
	}{
		"FromCurrentWindow": {window: at(10 * time.Minute), state: models.StateBusy, expected: now.Add(40 * time.Minute)},
		"FromElapsedWindow": {window: at(-50 * time.Minute), state: models.StateBusy, expected: now.Add(-20 * time.Minute)},
		"NoWindow":          {window: nil, state: models.StateFree, expected: now.Add(30 * time.Minute)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a := models.Agent{State: tt.state, AvailableAgainAt: tt.window}
			availability.Extend(&a, now)
			assert.Equal(t, tt.expected, *a.AvailableAgainAt)
			assert.Equal(t, tt.state, a.State, "Extend must not change state")
		})
	}
}

func TestRelease_KeepsWindowAndIsIdempotent(t *testing.T) {
	a := models.Agent{ID: "Victor", State: models.StateFree}
	availability.MarkBusy(&a, "lead-1", "Acme", now)

	availability.Release(&a)
	once := a.Clone()
	availability.Release(&a)

	assert.Equal(t, once, a)
	assert.Equal(t, models.StateFree, a.State)
	assert.Empty(t, a.CurrentLeadID)
	assert.Equal(t, now.Add(40*time.Minute), *a.AvailableAgainAt)
	assert.False(t, availability.Eligible(a, now.Add(10*time.Minute)), "window still gates rotation")
	assert.True(t, availability.Eligible(a, now.Add(40*time.Minute)))
}

func TestRemainingMinutes(t *testing.T) {
	tests := map[string]struct {
		window   *time.Time
		expected int
	}{
		"None":       {window: nil, expected: 0},
		"Elapsed":    {window: at(-time.Second), expected: 0},
		"RoundsUp":   {window: at(90 * time.Second), expected: 2},
		"ExactWhole": {window: at(40 * time.Minute), expected: 40},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, availability.RemainingMinutes(models.Agent{AvailableAgainAt: tt.window}, now))
		})
	}
}

func TestAssignedBefore(t *testing.T) {
	never := models.Agent{ID: "never"}
	early := models.Agent{ID: "early", LastAssignedAt: at(-time.Hour)}
	late := models.Agent{ID: "late", LastAssignedAt: at(-time.Minute)}

	assert.True(t, availability.AssignedBefore(never, early))
	assert.False(t, availability.AssignedBefore(early, never))
	assert.False(t, availability.AssignedBefore(never, never))
	assert.True(t, availability.AssignedBefore(early, late))
	assert.False(t, availability.AssignedBefore(late, early))
	assert.False(t, availability.AssignedBefore(late, late))
}
