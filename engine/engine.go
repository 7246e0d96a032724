// Package engine routes classified leads to agents and owns the manual
// extend/release controls.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"lead-router/availability"
	"lead-router/directory"
	customerrors "lead-router/errors"
	"lead-router/logger"
	"lead-router/metrics"
	"lead-router/models"
)

// DefaultMaxAttempts bounds how many times candidate selection is re-run
// after losing a race for the chosen agent.
const DefaultMaxAttempts = 16

// Engine holds no routing state of its own; every call is a transformation
// over the directory at a given instant.
type Engine struct {
	dir         directory.Directory
	log         *logger.Logger
	maxAttempts int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxAttempts overrides DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// New creates an engine over dir.
func New(dir directory.Directory, log *logger.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logger.Discard()
	}
	e := &Engine{dir: dir, log: log, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assign picks the assignee for lead, whose Score and Tier must already be
// set, and marks that agent BUSY. At most one agent record is written.
//
// INFORMATIONAL leads always go to their registrant. POTENTIAL and
// SEMI_POTENTIAL leads go to the longest-idle eligible agent of the same
// tier other than the registrant, or to models.Unassigned when there is none.
func (e *Engine) Assign(ctx context.Context, lead models.Lead, now time.Time) (models.AssignmentDecision, error) {
	start := time.Now()
	defer func() { metrics.AssignmentDurationSeconds.Observe(time.Since(start).Seconds()) }()

	switch {
	case lead.Tier == models.TierInformational:
		return e.assignToRegistrant(ctx, lead, now)
	case lead.Tier.Routed():
		return e.assignByRotation(ctx, lead, now)
	default:
		return models.AssignmentDecision{}, fmt.Errorf("%w: %q", customerrors.ErrUnknownTier, lead.Tier)
	}
}

func (e *Engine) assignToRegistrant(ctx context.Context, lead models.Lead, now time.Time) (models.AssignmentDecision, error) {
	decision := models.AssignmentDecision{
		Tier:            lead.Tier,
		Score:           lead.Score,
		AssignedAgentID: lead.Registrant,
	}
	if lead.Registrant == "" {
		decision.AssignedAgentID = models.Unassigned
		decision.RegistrantMissing = true
		e.registrantMissing(lead)
		return decision, nil
	}

	_, err := e.dir.Update(ctx, lead.Registrant, func(a *models.Agent) error {
		availability.MarkBusy(a, lead.ID, lead.Name, now)
		return nil
	})
	switch {
	case errors.Is(err, customerrors.ErrNotFound):
		decision.RegistrantMissing = true
		e.registrantMissing(lead)
	case err != nil:
		return models.AssignmentDecision{}, fmt.Errorf("reserve registrant %s: %w", lead.Registrant, err)
	default:
		e.log.LeadAssigned(lead.ID, string(lead.Tier), lead.Registrant, lead.Score)
	}
	metrics.AssignmentsTotal.WithLabelValues(string(lead.Tier), metrics.OutcomeRegistrant).Inc()
	return decision, nil
}

func (e *Engine) registrantMissing(lead models.Lead) {
	metrics.RegistrantMissingTotal.Inc()
	e.log.RegistrantMissing(lead.ID, lead.Registrant)
}

func (e *Engine) assignByRotation(ctx context.Context, lead models.Lead, now time.Time) (models.AssignmentDecision, error) {
	decision := models.AssignmentDecision{
		Tier:            lead.Tier,
		Score:           lead.Score,
		AssignedAgentID: models.Unassigned,
	}

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		agents, err := e.dir.ListByTier(ctx, lead.Tier)
		if err != nil {
			return models.AssignmentDecision{}, fmt.Errorf("list %s agents: %w", lead.Tier, err)
		}
		candidates := Candidates(agents, lead.Tier, lead.Registrant, now)
		if len(candidates) == 0 {
			break
		}

		chosen := candidates[0]
		_, err = e.dir.Update(ctx, chosen.ID, func(a *models.Agent) error {
			if a.Version != chosen.Version || !availability.Eligible(*a, now) {
				return customerrors.ErrConflict
			}
			availability.MarkBusy(a, lead.ID, lead.Name, now)
			return nil
		})
		if errors.Is(err, customerrors.ErrConflict) || errors.Is(err, customerrors.ErrNotFound) {
			metrics.AssignmentConflictsTotal.Inc()
			e.log.AssignmentConflict(chosen.ID, attempt)
			continue
		}
		if err != nil {
			return models.AssignmentDecision{}, fmt.Errorf("reserve %s: %w", chosen.ID, err)
		}

		decision.AssignedAgentID = chosen.ID
		metrics.AssignmentsTotal.WithLabelValues(string(lead.Tier), metrics.OutcomeAssigned).Inc()
		e.log.LeadAssigned(lead.ID, string(lead.Tier), chosen.ID, lead.Score)
		return decision, nil
	}

	metrics.AssignmentsTotal.WithLabelValues(string(lead.Tier), metrics.OutcomeUnassigned).Inc()
	e.log.LeadUnassigned(lead.ID, string(lead.Tier), lead.Score)
	return decision, nil
}

// Candidates filters agents down to those rotation may pick for a lead of
// tier recorded by registrant, ordered longest-idle first. Agents that were
// never assigned come first; ties keep the input order.
func Candidates(agents []models.Agent, tier models.Tier, registrant string, now time.Time) []models.Agent {
	out := make([]models.Agent, 0, len(agents))
	for _, a := range agents {
		if a.Tier != tier || a.ID == registrant {
			continue
		}
		if !availability.Eligible(a, now) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return availability.AssignedBefore(out[i], out[j])
	})
	return out
}

// Extend pushes the agent's availability window forward by
// availability.ExtensionStep.
func (e *Engine) Extend(ctx context.Context, agentID string, now time.Time) (models.Agent, error) {
	a, err := e.dir.Update(ctx, agentID, func(a *models.Agent) error {
		availability.Extend(a, now)
		return nil
	})
	e.operatorAction("extend", agentID, err)
	return a, err
}

// Release frees the agent without touching its availability window.
// Releasing a FREE agent is a no-op apart from the version bump.
func (e *Engine) Release(ctx context.Context, agentID string) (models.Agent, error) {
	a, err := e.dir.Update(ctx, agentID, func(a *models.Agent) error {
		availability.Release(a)
		return nil
	})
	e.operatorAction("release", agentID, err)
	return a, err
}

func (e *Engine) operatorAction(action, agentID string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, customerrors.ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	metrics.OperatorActionsTotal.WithLabelValues(action, result).Inc()
	e.log.OperatorAction(action, agentID, err)
}
