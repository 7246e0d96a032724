package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	customerrors "lead-router/errors"
	"lead-router/models"
)

const leadColumns = `id, name, phone, owner, registrant, models_json, marital_status, partner_decides,
  capital, urgency, risk, score, tier, assigned_agent_id, created_at`

// Append stores an evaluated lead. Leads are never updated afterwards.
func (s *Store) Append(ctx context.Context, l models.Lead) error {
	modelsJSON, err := json.Marshal(l.Models)
	if err != nil {
		return fmt.Errorf("marshal models: %w", err)
	}
	if l.Models == nil {
		modelsJSON = []byte("[]")
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO leads (`+leadColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Phone, l.Owner, l.Registrant, string(modelsJSON),
		string(l.Answers.MaritalStatus), l.Answers.PartnerDecides,
		string(l.Answers.Capital), string(l.Answers.Urgency), string(l.Answers.Risk),
		l.Score, string(l.Tier), l.AssignedAgentID, l.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert lead %s: %w", l.ID, err)
	}
	return nil
}

func scanLead(r rowScanner) (models.Lead, error) {
	var (
		l          models.Lead
		modelsJSON string
		createdAt  int64
	)
	err := r.Scan(&l.ID, &l.Name, &l.Phone, &l.Owner, &l.Registrant, &modelsJSON,
		&l.Answers.MaritalStatus, &l.Answers.PartnerDecides,
		&l.Answers.Capital, &l.Answers.Urgency, &l.Answers.Risk,
		&l.Score, &l.Tier, &l.AssignedAgentID, &createdAt)
	if err != nil {
		return models.Lead{}, err
	}
	if err := json.Unmarshal([]byte(modelsJSON), &l.Models); err != nil {
		return models.Lead{}, fmt.Errorf("decode models of lead %s: %w", l.ID, err)
	}
	if len(l.Models) == 0 {
		l.Models = nil
	}
	l.CreatedAt = time.Unix(0, createdAt).UTC()
	return l, nil
}

// Lead returns a stored lead by id.
func (s *Store) Lead(ctx context.Context, id string) (models.Lead, error) {
	l, err := scanLead(s.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Lead{}, fmt.Errorf("lead %s: %w", id, customerrors.ErrNotFound)
	}
	return l, err
}

// Recent returns up to limit leads, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]models.Lead, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent leads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Counts tallies stored leads per tier.
func (s *Store) Counts(ctx context.Context) (models.TierCounts, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tier, COUNT(*) FROM leads GROUP BY tier`)
	if err != nil {
		return models.TierCounts{}, fmt.Errorf("count leads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts models.TierCounts
	for rows.Next() {
		var (
			tier models.Tier
			n    int
		)
		if err := rows.Scan(&tier, &n); err != nil {
			return models.TierCounts{}, err
		}
		counts.AddN(tier, n)
	}
	return counts, rows.Err()
}
