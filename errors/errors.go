package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a lead submission rejected before scoring.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid lead field %q: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Lead validation
var (
	ErrMissingLeadName = fmt.Errorf("lead name is required")
	ErrMissingOwner    = fmt.Errorf("lead owner is required")
	ErrTooManyModels   = fmt.Errorf("at most three models may be listed")
	ErrInvalidLead     = fmt.Errorf("invalid lead")
)

// Directory and engine
var (
	ErrNotFound       = fmt.Errorf("agent not found")
	ErrConflict       = fmt.Errorf("agent changed concurrently")
	ErrDuplicateAgent = fmt.Errorf("duplicate agent id")
	ErrUnknownTier    = fmt.Errorf("unknown tier")
	ErrUnknownRank    = fmt.Errorf("unknown seniority")
	ErrEmptyRoster    = fmt.Errorf("roster has no agents")
)

// CSV input
var (
	ErrInvalidFieldCount = fmt.Errorf("invalid field count")
	ErrInvalidPartner    = fmt.Errorf("invalid partner flag")
	ErrEmptyRecord       = fmt.Errorf("empty record")
)
