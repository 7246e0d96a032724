package formatter_test

import (
	"encoding/json"
	"errors"
	"lead-router/formatter"
	"lead-router/leads"
	"lead-router/models"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func sampleLeads() []models.Lead {
	return []models.Lead{
		{
			ID:              "lead-1",
			Submission:      models.Submission{Name: "Acme", Owner: "Karl", Registrant: "Gabriela"},
			Score:           110,
			Tier:            models.TierPotential,
			AssignedAgentID: "Marcelo",
			CreatedAt:       now,
		},
		{
			ID:              "lead-2",
			Submission:      models.Submission{Name: "Lopez, Ana", Owner: "Andrea"},
			Score:           76,
			Tier:            models.TierSemiPotential,
			AssignedAgentID: models.Unassigned,
			CreatedAt:       now,
		},
	}
}

func TestFormatLeadsText(t *testing.T) {
	tests := map[string]struct {
		rows     []formatter.LeadRow
		contains []string
	}{
		"NoLeads": {
			rows:     nil,
			contains: []string{"no leads"},
		},
		"StoredLeads": {
			rows: formatter.LeadRows(sampleLeads()),
			contains: []string{
				"#1 Acme : score=110 ; tier=POTENTIAL ; agent=Marcelo",
				"#2 Lopez, Ana : score=76 ; tier=SEMI_POTENTIAL ; agent=UNASSIGNED",
			},
		},
		"BatchOutcomes": {
			rows: formatter.OutcomeRows([]leads.Outcome{
				{Index: 0, Err: errors.New("invalid lead field \"name\": lead name is required")},
				{
					Index:    1,
					Lead:     models.Lead{ID: "lead-9", Submission: models.Submission{Name: "Diaz"}, Score: 49, Tier: models.TierInformational, AssignedAgentID: "Nobody"},
					Decision: models.AssignmentDecision{RegistrantMissing: true},
				},
			}),
			contains: []string{
				"#1 rejected: invalid lead field \"name\"",
				"#2 Diaz : score=49 ; tier=INFORMATIONAL ; agent=Nobody",
				"registrant not in directory",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := formatter.FormatLeadsText(tt.rows)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
		})
	}
}

func TestFormatLeadsJSON(t *testing.T) {
	got := formatter.FormatLeadsJSON(formatter.LeadRows(sampleLeads()))

	var rows []formatter.LeadRow
	require.NoError(t, json.Unmarshal([]byte(got), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "lead-1", rows[0].ID)
	assert.Equal(t, models.TierPotential, rows[0].Tier)
	assert.Equal(t, models.Unassigned, rows[1].AssignedAgentID)

	assert.Equal(t, "[]", formatter.FormatLeadsJSON(nil))
}

func TestFormatLeadsCSV(t *testing.T) {
	got := formatter.FormatLeadsCSV(formatter.LeadRows(sampleLeads()))
	lines := strings.Split(strings.TrimSpace(got), "\n")

	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Index,ID,Name,Owner,Registrant,Score,Tier"))
	assert.Equal(t, "1,lead-1,Acme,Karl,Gabriela,110,POTENTIAL,Marcelo,No,2026-10-19T15:00:00Z,", lines[1])
	assert.Contains(t, lines[2], `"Lopez, Ana"`)
}

func TestFormatStats(t *testing.T) {
	c := models.TierCounts{Potential: 2, SemiPotential: 1, Informational: 3}

	assert.Equal(t, "POTENTIAL=2 ; SEMI_POTENTIAL=1 ; INFORMATIONAL=3 ; total=6\n", formatter.FormatStatsText(c))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal([]byte(formatter.FormatStatsJSON(c)), &decoded))
	assert.Equal(t, map[string]int{"potential": 2, "semi_potential": 1, "informational": 3, "total": 6}, decoded)

	assert.Contains(t, formatter.FormatStatsCSV(c), "TOTAL,6")
}

func TestPrepareBoard(t *testing.T) {
	agents := []models.Agent{
		{ID: "Karl", Tier: models.TierPotential, State: models.StateFree, LastAssignedAt: at(-2 * time.Hour)},
		{ID: "Marcelo", Tier: models.TierPotential, State: models.StateFree, LastAssignedAt: at(-30 * time.Minute), AvailableAgainAt: at(10 * time.Minute)},
		{ID: "Victor", Tier: models.TierPotential, State: models.StateFree},
		{ID: "Andrea", Tier: models.TierSemiPotential, State: models.StateBusy, CurrentLeadID: "lead-1", CurrentLeadName: "Acme", AvailableAgainAt: at(25 * time.Minute)},
		{ID: "Maria", Tier: models.TierSemiPotential, State: models.StateBusy, CurrentLeadID: "lead-2", AvailableAgainAt: at(-5 * time.Minute)},
		{ID: "Gabriela", Tier: models.TierInformational, State: models.StateFree},
		{ID: "Celio", Tier: models.TierOther, State: models.StateFree},
	}

	board := formatter.PrepareBoard(agents, now)

	var free []string
	for _, e := range board.Free {
		free = append(free, e.ID+":"+e.Label)
	}
	assert.Equal(t, []string{
		"Victor:ready",
		"Karl:ready",
		"Marcelo:refreshes in 10 min",
		"Gabriela:ready",
	}, free)

	var busy []string
	for _, e := range board.Busy {
		busy = append(busy, e.ID+":"+e.Label+":"+e.CurrentLead)
	}
	assert.Equal(t, []string{
		"Maria:finishing:lead-2",
		"Andrea:25 min left:Acme",
	}, busy)

	assert.Equal(t, map[string]int{"SEMI_POTENTIAL": 2}, board.BusyByTier())
}

func TestFormatBoard(t *testing.T) {
	board := formatter.PrepareBoard([]models.Agent{
		{ID: "Karl", Tier: models.TierPotential, Seniority: models.SeniorityMaster, State: models.StateFree},
		{ID: "Andrea", Tier: models.TierSemiPotential, Seniority: models.SenioritySenior, State: models.StateBusy, CurrentLeadID: "lead-1", CurrentLeadName: "Acme", AvailableAgainAt: at(40 * time.Minute)},
	}, now)

	text := formatter.FormatBoardText(board)
	assert.Contains(t, text, "FREE (1)")
	assert.Contains(t, text, "BUSY (1)")
	assert.Contains(t, text, "40 min left ; lead=Acme")

	var decoded formatter.BoardData
	require.NoError(t, json.Unmarshal([]byte(formatter.FormatBoardJSON(board)), &decoded))
	assert.Equal(t, board, decoded)

	csvLines := strings.Split(strings.TrimSpace(formatter.FormatBoardCSV(board)), "\n")
	require.Len(t, csvLines, 3)
	assert.Equal(t, "Karl,POTENTIAL,MASTER,FREE,,0,ready", csvLines[1])
	assert.Equal(t, "Andrea,SEMI_POTENTIAL,SENIOR,BUSY,Acme,40,40 min left", csvLines[2])
}

func TestPrepareBoard_Empty(t *testing.T) {
	board := formatter.PrepareBoard(nil, now)
	assert.Empty(t, board.Free)
	assert.Empty(t, board.Busy)
	assert.Equal(t, "{\n  \"free\": [],\n  \"busy\": []\n}", formatter.FormatBoardJSON(board))
}
