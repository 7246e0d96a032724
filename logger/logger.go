// Package logger provides structured logging for the lead router.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with helpers for routing events.
type Logger struct {
	*slog.Logger
}

// New creates a logger writing to stderr: text at debug level in
// development, JSON at info level otherwise.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stderr)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(env string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// LeadAssigned logs a lead routed to an agent.
func (l *Logger) LeadAssigned(leadID, tier, agentID string, score int) {
	l.Info("lead_assigned",
		slog.String("lead_id", leadID),
		slog.String("tier", tier),
		slog.Int("score", score),
		slog.String("agent_id", agentID),
	)
}

// LeadUnassigned logs a lead that found no eligible agent.
func (l *Logger) LeadUnassigned(leadID, tier string, score int) {
	l.Info("lead_unassigned",
		slog.String("lead_id", leadID),
		slog.String("tier", tier),
		slog.Int("score", score),
	)
}

// RegistrantMissing logs an informational lead whose registrant is not in
// the directory; the decision still names the registrant.
func (l *Logger) RegistrantMissing(leadID, registrant string) {
	l.Warn("registrant_missing",
		slog.String("lead_id", leadID),
		slog.String("registrant", registrant),
	)
}

// AssignmentConflict logs a lost race for a candidate.
func (l *Logger) AssignmentConflict(agentID string, attempt int) {
	l.Debug("assignment_conflict",
		slog.String("agent_id", agentID),
		slog.Int("attempt", attempt),
	)
}

// OperatorAction logs extend/release calls.
func (l *Logger) OperatorAction(action, agentID string, err error) {
	if err != nil {
		l.Warn("operator_action",
			slog.String("action", action),
			slog.String("agent_id", agentID),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Info("operator_action",
		slog.String("action", action),
		slog.String("agent_id", agentID),
	)
}

// StoreError logs persistence errors.
func (l *Logger) StoreError(operation string, err error) {
	l.Error("store_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// LeadRejected logs a submission that failed validation.
func (l *Logger) LeadRejected(field string, err error) {
	l.Info("lead_rejected",
		slog.String("field", field),
		slog.String("error", err.Error()),
	)
}
