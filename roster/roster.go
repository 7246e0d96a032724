// Package roster defines the agent roster the directory is seeded from.
package roster

import (
	"context"
	"fmt"
	"io"
	"os"

	"lead-router/directory"
	customerrors "lead-router/errors"
	"lead-router/models"

	"gopkg.in/yaml.v3"
)

// DefaultVersion identifies the built-in roster.
const DefaultVersion = "2024-fenix-1"

// Entry is one roster line.
type Entry struct {
	Name      string `yaml:"name"`
	Tier      string `yaml:"tier"`
	Seniority string `yaml:"seniority"`
}

// Roster is a versioned, ordered list of agents. Order is the directory
// enumeration order and therefore the rotation tie-break.
type Roster struct {
	Version string  `yaml:"version"`
	Agents  []Entry `yaml:"agents"`
}

// Default returns the built-in roster.
func Default() Roster {
	return Roster{
		Version: DefaultVersion,
		Agents: []Entry{
			{Name: "Karl", Tier: "POTENTIAL", Seniority: "MASTER"},
			{Name: "Marcelo", Tier: "POTENTIAL", Seniority: "MASTER"},
			{Name: "Victor", Tier: "POTENTIAL", Seniority: "MASTER"},
			{Name: "Andrea", Tier: "SEMI_POTENTIAL", Seniority: "SENIOR"},
			{Name: "Christian", Tier: "SEMI_POTENTIAL", Seniority: "SENIOR"},
			{Name: "Maria", Tier: "SEMI_POTENTIAL", Seniority: "SENIOR"},
			{Name: "Gabriela", Tier: "INFORMATIONAL", Seniority: "JUNIOR"},
			{Name: "Ana Gabriela", Tier: "INFORMATIONAL", Seniority: "JUNIOR"},
			{Name: "Celio", Tier: "OTHER", Seniority: "GENERAL"},
			{Name: "Daniel", Tier: "OTHER", Seniority: "GENERAL"},
			{Name: "Vannessa", Tier: "OTHER", Seniority: "GENERAL"},
		},
	}
}

// Parse decodes a YAML roster.
func Parse(r io.Reader) (Roster, error) {
	var ros Roster
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ros); err != nil {
		return Roster{}, fmt.Errorf("decode roster: %w", err)
	}
	if _, err := ros.ToAgents(); err != nil {
		return Roster{}, err
	}
	return ros, nil
}

// Load reads a YAML roster from path. An empty path yields Default.
func Load(path string) (Roster, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Roster{}, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// ToAgents converts the roster into FREE directory records.
func (r Roster) ToAgents() ([]models.Agent, error) {
	if len(r.Agents) == 0 {
		return nil, customerrors.ErrEmptyRoster
	}
	seen := make(map[string]bool, len(r.Agents))
	agents := make([]models.Agent, 0, len(r.Agents))
	for i, e := range r.Agents {
		if e.Name == "" {
			return nil, fmt.Errorf("roster entry %d: name is required", i+1)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: %s", customerrors.ErrDuplicateAgent, e.Name)
		}
		seen[e.Name] = true

		tier, ok := models.ParseTier(e.Tier)
		if !ok {
			return nil, fmt.Errorf("roster entry %s: %w: %q", e.Name, customerrors.ErrUnknownTier, e.Tier)
		}
		seniority, ok := models.ParseSeniority(e.Seniority)
		if !ok {
			return nil, fmt.Errorf("roster entry %s: %w: %q", e.Name, customerrors.ErrUnknownRank, e.Seniority)
		}
		agents = append(agents, models.Agent{
			ID:        e.Name,
			Tier:      tier,
			Seniority: seniority,
			State:     models.StateFree,
		})
	}
	return agents, nil
}

// Bootstrap seeds dir from r unless it already holds agents. It reports
// whether seeding happened.
func Bootstrap(ctx context.Context, dir directory.Directory, r Roster) (bool, error) {
	agents, err := r.ToAgents()
	if err != nil {
		return false, err
	}
	seeded, err := dir.Seed(ctx, agents)
	if err != nil {
		return false, fmt.Errorf("seed roster %s: %w", r.Version, err)
	}
	return seeded, nil
}
