package sqlitestore_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"lead-router/engine"
	customerrors "lead-router/errors"
	"lead-router/models"
	"lead-router/roster"
	"lead-router/sqlitestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	st, err := sqlitestore.Open(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "router.db")
	st, err := sqlitestore.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.Close())

	st, err = sqlitestore.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestAgents_SeedAndList(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	seeded, err := roster.Bootstrap(ctx, st, roster.Default())
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = roster.Bootstrap(ctx, st, roster.Default())
	require.NoError(t, err)
	assert.False(t, seeded)

	all, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 11)
	assert.Equal(t, "Karl", all[0].ID)
	assert.Equal(t, "Vannessa", all[10].ID)

	semi, err := st.ListByTier(ctx, models.TierSemiPotential)
	require.NoError(t, err)
	ids := []string{}
	for _, a := range semi {
		ids = append(ids, a.ID)
		assert.Equal(t, models.StateFree, a.State)
		assert.Nil(t, a.LastAssignedAt)
	}
	assert.Equal(t, []string{"Andrea", "Christian", "Maria"}, ids)

	_, err = st.Get(ctx, "Nobody")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestAgents_UpdateRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	_, err := roster.Bootstrap(ctx, st, roster.Default())
	require.NoError(t, err)

	changes, cancel := st.Subscribe(2)
	defer cancel()

	until := now.Add(40 * time.Minute)
	updated, err := st.Update(ctx, "Victor", func(a *models.Agent) error {
		a.State = models.StateBusy
		a.CurrentLeadID = "lead-7"
		a.CurrentLeadName = "Acme"
		a.LastAssignedAt = &now
		a.AvailableAgainAt = &until
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), updated.Version)

	got, err := st.Get(ctx, "Victor")
	require.NoError(t, err)
	assert.Equal(t, models.StateBusy, got.State)
	assert.Equal(t, "lead-7", got.CurrentLeadID)
	assert.Equal(t, "Acme", got.CurrentLeadName)
	assert.True(t, now.Equal(*got.LastAssignedAt))
	assert.True(t, until.Equal(*got.AvailableAgainAt))
	assert.Equal(t, uint64(1), got.Version)

	select {
	case c := <-changes:
		assert.Equal(t, "Victor", c.Agent.ID)
	case <-time.After(time.Second):
		t.Fatal("expected change notification")
	}
}

func TestAgents_BusyRequiresLead(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	_, err := roster.Bootstrap(ctx, st, roster.Default())
	require.NoError(t, err)

	_, err = st.Update(ctx, "Karl", func(a *models.Agent) error {
		a.State = models.StateBusy
		return nil
	})
	assert.Error(t, err)

	karl, err := st.Get(ctx, "Karl")
	require.NoError(t, err)
	assert.Equal(t, models.StateFree, karl.State)
}

func TestAgents_EngineExclusivity(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	_, err := roster.Bootstrap(ctx, st, roster.Default())
	require.NoError(t, err)
	eng := engine.New(st, nil)

	const callers = 8
	results := make([]string, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := models.Lead{
				ID:         fmt.Sprintf("lead-%d", i),
				Submission: models.Submission{Name: "Prospect", Owner: "Karl"},
				Score:      110,
				Tier:       models.TierPotential,
			}
			d, err := eng.Assign(ctx, l, now)
			assert.NoError(t, err)
			results[i] = d.AssignedAgentID
		}()
	}
	wg.Wait()

	assigned := map[string]int{}
	for _, id := range results {
		if id != models.Unassigned {
			assigned[id]++
		}
	}
	assert.Equal(t, map[string]int{"Karl": 1, "Marcelo": 1, "Victor": 1}, assigned)
}

func TestLeads_AppendRecentCounts(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	tiers := []models.Tier{models.TierPotential, models.TierSemiPotential, models.TierSemiPotential, models.TierInformational}
	for i, tier := range tiers {
		require.NoError(t, st.Append(ctx, models.Lead{
			ID: fmt.Sprintf("lead-%d", i),
			Submission: models.Submission{
				Name:       fmt.Sprintf("Prospect %d", i),
				Owner:      "Karl",
				Registrant: "Gabriela",
				Models:     []string{"A1"},
				Answers: models.Answers{
					MaritalStatus:  models.MaritalMarried,
					PartnerDecides: true,
					Capital:        models.CapitalCash,
					Urgency:        models.UrgencyCanWait,
					Risk:           models.RiskLoss,
				},
			},
			Score:           80,
			Tier:            tier,
			AssignedAgentID: models.Unassigned,
			CreatedAt:       now.Add(time.Duration(i) * time.Minute),
		}))
	}

	err := st.Append(ctx, models.Lead{ID: "lead-0", Submission: models.Submission{Name: "dup", Owner: "x"}, Tier: models.TierPotential})
	assert.Error(t, err, "lead ids are unique")

	recent, err := st.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "lead-3", recent[0].ID)
	assert.Equal(t, "lead-2", recent[1].ID)
	assert.Equal(t, []string{"A1"}, recent[0].Models)
	assert.True(t, recent[0].Answers.PartnerDecides)
	assert.Equal(t, models.RiskLoss, recent[0].Answers.Risk)
	assert.True(t, now.Add(3*time.Minute).Equal(recent[0].CreatedAt))

	counts, err := st.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TierCounts{Potential: 1, SemiPotential: 2, Informational: 1}, counts)

	got, err := st.Lead(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Prospect 1", got.Name)

	_, err = st.Lead(ctx, "missing")
	assert.ErrorIs(t, err, customerrors.ErrNotFound)
}

func TestOpen_InMemory(t *testing.T) {
	st, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	seeded, err := roster.Bootstrap(context.Background(), st, roster.Default())
	require.NoError(t, err)
	assert.True(t, seeded)
}
