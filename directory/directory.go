// Package directory holds the authoritative state of every agent.
package directory

import (
	"context"

	"lead-router/models"
)

// Mutation edits an agent in place. Returning an error aborts the update
// and leaves the stored record untouched.
type Mutation func(*models.Agent) error

// Directory is the store the assignment engine reads and writes.
// Implementations must apply Update atomically and bump Agent.Version on
// every successful write.
type Directory interface {
	Get(ctx context.Context, id string) (models.Agent, error)
	// ListByTier returns agents of tier in stable enumeration order.
	ListByTier(ctx context.Context, tier models.Tier) ([]models.Agent, error)
	// List returns every agent in enumeration order.
	List(ctx context.Context) ([]models.Agent, error)
	Update(ctx context.Context, id string, m Mutation) (models.Agent, error)
	// Seed inserts agents only when the directory is empty and reports
	// whether anything was written.
	Seed(ctx context.Context, agents []models.Agent) (bool, error)
}

// Change is published after every successful write.
type Change struct {
	Agent models.Agent
}
