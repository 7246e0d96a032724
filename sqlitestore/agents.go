package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lead-router/directory"
	customerrors "lead-router/errors"
	"lead-router/models"
)

const agentColumns = `id, tier, seniority, state, last_assigned_at, current_lead_id, current_lead_name, available_again_at, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(r rowScanner) (models.Agent, error) {
	var (
		a              models.Agent
		lastAssigned   sql.NullInt64
		availableAgain sql.NullInt64
	)
	err := r.Scan(&a.ID, &a.Tier, &a.Seniority, &a.State, &lastAssigned,
		&a.CurrentLeadID, &a.CurrentLeadName, &availableAgain, &a.Version)
	if err != nil {
		return models.Agent{}, err
	}
	a.LastAssignedAt = fromNullNanos(lastAssigned)
	a.AvailableAgainAt = fromNullNanos(availableAgain)
	return a, nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Agent, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = ?`, id)
	a, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Agent{}, fmt.Errorf("%w: %s", customerrors.ErrNotFound, id)
	}
	if err != nil {
		return models.Agent{}, fmt.Errorf("get agent %s: %w", id, err)
	}
	return a, nil
}

func (s *Store) ListByTier(ctx context.Context, tier models.Tier) ([]models.Agent, error) {
	return s.queryAgents(ctx, `SELECT `+agentColumns+` FROM agents WHERE tier = ? ORDER BY position`, string(tier))
}

func (s *Store) List(ctx context.Context) ([]models.Agent, error) {
	return s.queryAgents(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY position`)
}

func (s *Store) queryAgents(ctx context.Context, query string, args ...any) ([]models.Agent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update reads, mutates and writes the agent inside one transaction. The
// write is guarded by the version read, so a concurrent writer on another
// handle to the same file yields ErrConflict instead of a lost update.
func (s *Store) Update(ctx context.Context, id string, mutate directory.Mutation) (models.Agent, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Agent{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := scanAgent(tx.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Agent{}, fmt.Errorf("%w: %s", customerrors.ErrNotFound, id)
	}
	if err != nil {
		return models.Agent{}, fmt.Errorf("get agent %s: %w", id, err)
	}

	next := cur.Clone()
	if err := mutate(&next); err != nil {
		return models.Agent{}, err
	}
	next.ID = cur.ID
	next.Version = cur.Version + 1

	res, err := tx.ExecContext(ctx, `
UPDATE agents SET
  tier = ?, seniority = ?, state = ?, last_assigned_at = ?,
  current_lead_id = ?, current_lead_name = ?, available_again_at = ?, version = ?
WHERE id = ? AND version = ?`,
		string(next.Tier), string(next.Seniority), string(next.State), toNullNanos(next.LastAssignedAt),
		next.CurrentLeadID, next.CurrentLeadName, toNullNanos(next.AvailableAgainAt), next.Version,
		cur.ID, cur.Version,
	)
	if err != nil {
		return models.Agent{}, fmt.Errorf("update agent %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.Agent{}, err
	} else if n != 1 {
		return models.Agent{}, customerrors.ErrConflict
	}
	if err := tx.Commit(); err != nil {
		return models.Agent{}, fmt.Errorf("commit agent %s: %w", id, err)
	}

	s.Publish(directory.Change{Agent: next.Clone()})
	return next, nil
}

func (s *Store) Seed(ctx context.Context, agents []models.Agent) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&n); err != nil {
		return false, fmt.Errorf("count agents: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	seen := make(map[string]bool, len(agents))
	for _, a := range agents {
		if seen[a.ID] {
			return false, fmt.Errorf("%w: %s", customerrors.ErrDuplicateAgent, a.ID)
		}
		seen[a.ID] = true

		state := a.State
		if state == "" {
			state = models.StateFree
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO agents (id, tier, seniority, state, last_assigned_at, current_lead_id, current_lead_name, available_again_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, string(a.Tier), string(a.Seniority), string(state), toNullNanos(a.LastAssignedAt),
			a.CurrentLeadID, a.CurrentLeadName, toNullNanos(a.AvailableAgainAt),
		); err != nil {
			return false, fmt.Errorf("insert agent %s: %w", a.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}
	return true, nil
}

var _ directory.Directory = (*Store)(nil)
