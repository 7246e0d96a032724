// Package leads turns submissions into evaluated, routed and recorded leads.
package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lead-router/availability"
	"lead-router/engine"
	customerrors "lead-router/errors"
	"lead-router/logger"
	"lead-router/metrics"
	"lead-router/models"
	"lead-router/scoring"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultHistory is how many leads the history view shows.
const DefaultHistory = 10

// Service validates, scores, classifies, assigns and persists submissions.
type Service struct {
	engine   *engine.Engine
	log      Log
	logger   *logger.Logger
	validate *validator.Validate
	clock    availability.Clock
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c availability.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithIDGenerator replaces the uuid generator used for lead ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService wires a service over an engine and a lead log.
func NewService(eng *engine.Engine, log Log, lg *logger.Logger, opts ...Option) *Service {
	if lg == nil {
		lg = logger.Discard()
	}
	s := &Service{
		engine:   eng,
		log:      log,
		logger:   lg,
		validate: validator.New(),
		clock:    availability.SystemClock{},
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Normalize trims free-text fields and drops empty model preferences.
func Normalize(sub models.Submission) models.Submission {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Phone = strings.TrimSpace(sub.Phone)
	sub.Owner = strings.TrimSpace(sub.Owner)
	sub.Registrant = strings.TrimSpace(sub.Registrant)
	var kept []string
	for _, m := range sub.Models {
		if m = strings.TrimSpace(m); m != "" {
			kept = append(kept, m)
		}
	}
	sub.Models = kept
	return sub
}

// Validate normalizes sub and checks the fields required before scoring.
// Failures are *customerrors.ValidationError.
func (s *Service) Validate(sub models.Submission) (models.Submission, error) {
	sub = Normalize(sub)
	err := s.validate.Struct(sub)
	if err == nil {
		return sub, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return sub, fmt.Errorf("validate lead: %w", err)
	}
	fe := fieldErrs[0]
	cause := customerrors.ErrInvalidLead
	switch fe.Field() {
	case "Name":
		cause = customerrors.ErrMissingLeadName
	case "Owner":
		cause = customerrors.ErrMissingOwner
	case "Models":
		cause = customerrors.ErrTooManyModels
	}
	return sub, &customerrors.ValidationError{Field: strings.ToLower(fe.Field()), Err: cause}
}

// Submit evaluates one submission at the service clock's current time.
// Validation failures leave the directory and the log untouched.
func (s *Service) Submit(ctx context.Context, sub models.Submission) (models.Lead, models.AssignmentDecision, error) {
	sub, err := s.Validate(sub)
	if err != nil {
		var ve *customerrors.ValidationError
		if errors.As(err, &ve) {
			s.logger.LeadRejected(ve.Field, ve.Err)
		}
		return models.Lead{}, models.AssignmentDecision{}, err
	}

	now := s.clock.Now()
	score, tier := scoring.Evaluate(sub.Answers)
	metrics.LeadsScoredTotal.WithLabelValues(string(tier)).Inc()

	lead := models.Lead{
		ID:         s.newID(),
		Submission: sub,
		Score:      score,
		Tier:       tier,
		CreatedAt:  now,
	}
	decision, err := s.engine.Assign(ctx, lead, now)
	if err != nil {
		return models.Lead{}, models.AssignmentDecision{}, fmt.Errorf("assign lead %s: %w", lead.ID, err)
	}
	lead.AssignedAgentID = decision.AssignedAgentID

	if err := s.log.Append(ctx, lead); err != nil {
		s.logger.StoreError("append_lead", err)
		return models.Lead{}, models.AssignmentDecision{}, fmt.Errorf("record lead %s: %w", lead.ID, err)
	}
	return lead, decision, nil
}

// Recent returns the newest leads; limit <= 0 means DefaultHistory.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.Lead, error) {
	if limit <= 0 {
		limit = DefaultHistory
	}
	return s.log.Recent(ctx, limit)
}

// Stats returns per-tier counts of recorded leads.
func (s *Service) Stats(ctx context.Context) (models.TierCounts, error) {
	return s.log.Counts(ctx)
}

// Now exposes the service clock so callers render boards at the same instant.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
