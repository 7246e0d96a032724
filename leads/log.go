package leads

import (
	"context"
	"fmt"
	"sync"

	customerrors "lead-router/errors"
	"lead-router/models"
)

// Log is the append-only record of evaluated leads.
type Log interface {
	Append(ctx context.Context, l models.Lead) error
	// Recent returns up to limit leads, newest first.
	Recent(ctx context.Context, limit int) ([]models.Lead, error)
	Counts(ctx context.Context) (models.TierCounts, error)
}

// MemoryLog keeps leads in process memory.
type MemoryLog struct {
	mu     sync.RWMutex
	leads  []models.Lead
	ids    map[string]bool
	counts models.TierCounts
}

// NewMemoryLog creates an empty log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{ids: make(map[string]bool)}
}

func (m *MemoryLog) Append(_ context.Context, l models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids[l.ID] {
		return fmt.Errorf("%w: duplicate lead id %s", customerrors.ErrInvalidLead, l.ID)
	}
	l.Models = append([]string(nil), l.Models...)
	m.leads = append(m.leads, l)
	m.ids[l.ID] = true
	m.counts.Add(l.Tier)
	return nil
}

func (m *MemoryLog) Recent(_ context.Context, limit int) ([]models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit > len(m.leads) {
		limit = len(m.leads)
	}
	out := make([]models.Lead, 0, max(limit, 0))
	for i := len(m.leads) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.leads[i])
	}
	return out, nil
}

func (m *MemoryLog) Counts(_ context.Context) (models.TierCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counts, nil
}
