package directory

import (
	"context"
	"fmt"
	"sync"

	customerrors "lead-router/errors"
	"lead-router/models"
)

// Memory is an in-process Directory. Reads return copies; Update runs the
// mutation under the write lock on a copy and commits it only on success.
type Memory struct {
	mu     sync.RWMutex
	order  []string
	agents map[string]*models.Agent
	*Broadcaster
}

// NewMemory creates an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{
		agents:      make(map[string]*models.Agent),
		Broadcaster: NewBroadcaster(),
	}
}

func (m *Memory) Get(_ context.Context, id string) (models.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[id]
	if !ok {
		return models.Agent{}, fmt.Errorf("%w: %s", customerrors.ErrNotFound, id)
	}
	return a.Clone(), nil
}

func (m *Memory) ListByTier(_ context.Context, tier models.Tier) ([]models.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Agent, 0, len(m.order))
	for _, id := range m.order {
		if a := m.agents[id]; a.Tier == tier {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

func (m *Memory) List(_ context.Context) ([]models.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Agent, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.agents[id].Clone())
	}
	return out, nil
}

func (m *Memory) Update(_ context.Context, id string, mutate Mutation) (models.Agent, error) {
	m.mu.Lock()
	cur, ok := m.agents[id]
	if !ok {
		m.mu.Unlock()
		return models.Agent{}, fmt.Errorf("%w: %s", customerrors.ErrNotFound, id)
	}
	next := cur.Clone()
	if err := mutate(&next); err != nil {
		m.mu.Unlock()
		return models.Agent{}, err
	}
	next.ID = cur.ID
	next.Version = cur.Version + 1
	m.agents[id] = &next
	out := next.Clone()
	m.mu.Unlock()

	m.Publish(Change{Agent: out.Clone()})
	return out, nil
}

func (m *Memory) Seed(_ context.Context, agents []models.Agent) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.order) > 0 {
		return false, nil
	}
	seen := make(map[string]bool, len(agents))
	for _, a := range agents {
		if seen[a.ID] {
			return false, fmt.Errorf("%w: %s", customerrors.ErrDuplicateAgent, a.ID)
		}
		seen[a.ID] = true
	}
	for _, a := range agents {
		c := a.Clone()
		if c.State == "" {
			c.State = models.StateFree
		}
		m.agents[c.ID] = &c
		m.order = append(m.order, c.ID)
	}
	return true, nil
}
