package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"lead-router/leads"
	"lead-router/models"
	"strconv"
	"strings"
	"time"
)

// LeadRow is one evaluated (or rejected) lead as shown to operators
type LeadRow struct {
	Index             int         `json:"index"`
	ID                string      `json:"id,omitempty"`
	Name              string      `json:"name,omitempty"`
	Owner             string      `json:"owner,omitempty"`
	Registrant        string      `json:"registrant,omitempty"`
	Score             int         `json:"score"`
	Tier              models.Tier `json:"tier,omitempty"`
	AssignedAgentID   string      `json:"assigned_agent_id,omitempty"`
	RegistrantMissing bool        `json:"registrant_missing,omitempty"`
	CreatedAt         *time.Time  `json:"created_at,omitempty"`
	Error             string      `json:"error,omitempty"`
}

// LeadRows prepares stored leads for formatting
func LeadRows(ls []models.Lead) []LeadRow {
	rows := make([]LeadRow, len(ls))
	for i, l := range ls {
		rows[i] = leadRow(i, l)
	}
	return rows
}

// OutcomeRows prepares batch outcomes for formatting
func OutcomeRows(outs []leads.Outcome) []LeadRow {
	rows := make([]LeadRow, len(outs))
	for i, o := range outs {
		if o.Err != nil {
			rows[i] = LeadRow{Index: o.Index, Error: o.Err.Error()}
			continue
		}
		rows[i] = leadRow(o.Index, o.Lead)
		rows[i].RegistrantMissing = o.Decision.RegistrantMissing
	}
	return rows
}

func leadRow(i int, l models.Lead) LeadRow {
	row := LeadRow{
		Index:           i,
		ID:              l.ID,
		Name:            l.Name,
		Owner:           l.Owner,
		Registrant:      l.Registrant,
		Score:           l.Score,
		Tier:            l.Tier,
		AssignedAgentID: l.AssignedAgentID,
	}
	if !l.CreatedAt.IsZero() {
		created := l.CreatedAt
		row.CreatedAt = &created
	}
	return row
}

// FormatLeadsText returns one line per lead
func FormatLeadsText(rows []LeadRow) string {
	if len(rows) == 0 {
		return "no leads\n"
	}
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(formatLeadLine(r))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatLeadLine(r LeadRow) string {
	if r.Error != "" {
		return fmt.Sprintf("#%d rejected: %s", r.Index+1, r.Error)
	}
	line := fmt.Sprintf("#%d %s : score=%d ; tier=%s ; agent=%s", r.Index+1, r.Name, r.Score, r.Tier, r.AssignedAgentID)
	if r.RegistrantMissing {
		line += "\n  ⚠️  registrant not in directory"
	}
	return line
}

// FormatLeadsJSON returns the JSON representation of the leads
func FormatLeadsJSON(rows []LeadRow) string {
	if rows == nil {
		rows = []LeadRow{}
	}
	jsonBytes, _ := json.MarshalIndent(rows, "", "  ")
	return string(jsonBytes)
}

// FormatLeadsCSV returns the CSV representation of the leads
func FormatLeadsCSV(rows []LeadRow) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	writer.Write([]string{
		"Index", "ID", "Name", "Owner", "Registrant", "Score", "Tier",
		"Assigned Agent", "Registrant Missing", "Created At", "Error",
	})

	for _, r := range rows {
		created := ""
		if r.CreatedAt != nil {
			created = r.CreatedAt.UTC().Format(time.RFC3339)
		}
		writer.Write([]string{
			strconv.Itoa(r.Index + 1),
			r.ID,
			r.Name,
			r.Owner,
			r.Registrant,
			strconv.Itoa(r.Score),
			string(r.Tier),
			r.AssignedAgentID,
			yesNo(r.RegistrantMissing),
			created,
			r.Error,
		})
	}

	writer.Flush()
	return sb.String()
}

// FormatStatsText returns the per-tier lead counters
func FormatStatsText(c models.TierCounts) string {
	return fmt.Sprintf("POTENTIAL=%d ; SEMI_POTENTIAL=%d ; INFORMATIONAL=%d ; total=%d\n",
		c.Potential, c.SemiPotential, c.Informational, c.Total())
}

// FormatStatsJSON returns the JSON representation of the counters
func FormatStatsJSON(c models.TierCounts) string {
	jsonBytes, _ := json.MarshalIndent(struct {
		models.TierCounts
		Total int `json:"total"`
	}{c, c.Total()}, "", "  ")
	return string(jsonBytes)
}

// FormatStatsCSV returns the CSV representation of the counters
func FormatStatsCSV(c models.TierCounts) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	writer.Write([]string{"Tier", "Leads"})
	writer.Write([]string{string(models.TierPotential), strconv.Itoa(c.Potential)})
	writer.Write([]string{string(models.TierSemiPotential), strconv.Itoa(c.SemiPotential)})
	writer.Write([]string{string(models.TierInformational), strconv.Itoa(c.Informational)})
	writer.Write([]string{"TOTAL", strconv.Itoa(c.Total())})
	writer.Flush()
	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
