package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"lead-router/availability"
	"lead-router/models"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BoardData holds the agent board split by availability
type BoardData struct {
	Free []BoardEntry `json:"free"`
	Busy []BoardEntry `json:"busy"`
}

// BoardEntry is one agent line on the board
type BoardEntry struct {
	ID               string                   `json:"id"`
	Tier             models.Tier              `json:"tier"`
	Seniority        models.Seniority         `json:"seniority"`
	State            models.AvailabilityState `json:"state"`
	CurrentLead      string                   `json:"current_lead,omitempty"`
	RemainingMinutes int                      `json:"remaining_minutes"`
	Label            string                   `json:"label"`
}

// Board labels
const (
	LabelReady     = "ready"
	LabelFinishing = "finishing"
)

// PrepareBoard builds the board for agents at now. OTHER-tier agents never
// take leads and are left off. Free agents are listed by tier, then in
// rotation order; busy agents by tier, then by time left.
func PrepareBoard(agents []models.Agent, now time.Time) BoardData {
	data := BoardData{Free: []BoardEntry{}, Busy: []BoardEntry{}}
	var free, busy []models.Agent
	for _, a := range agents {
		if a.Tier == models.TierOther {
			continue
		}
		if a.Busy() {
			busy = append(busy, a)
		} else {
			free = append(free, a)
		}
	}

	sort.SliceStable(free, func(i, j int) bool {
		if ri, rj := free[i].Tier.Rank(), free[j].Tier.Rank(); ri != rj {
			return ri > rj
		}
		return availability.AssignedBefore(free[i], free[j])
	})
	sort.SliceStable(busy, func(i, j int) bool {
		if ri, rj := busy[i].Tier.Rank(), busy[j].Tier.Rank(); ri != rj {
			return ri > rj
		}
		return availability.RemainingMinutes(busy[i], now) < availability.RemainingMinutes(busy[j], now)
	})

	for _, a := range free {
		e := boardEntry(a, now)
		e.Label = LabelReady
		if e.RemainingMinutes > 0 {
			e.Label = fmt.Sprintf("refreshes in %d min", e.RemainingMinutes)
		}
		data.Free = append(data.Free, e)
	}
	for _, a := range busy {
		e := boardEntry(a, now)
		e.Label = LabelFinishing
		if e.RemainingMinutes > 0 {
			e.Label = fmt.Sprintf("%d min left", e.RemainingMinutes)
		}
		data.Busy = append(data.Busy, e)
	}
	return data
}

func boardEntry(a models.Agent, now time.Time) BoardEntry {
	lead := a.CurrentLeadName
	if lead == "" {
		lead = a.CurrentLeadID
	}
	return BoardEntry{
		ID:               a.ID,
		Tier:             a.Tier,
		Seniority:        a.Seniority,
		State:            a.State,
		CurrentLead:      lead,
		RemainingMinutes: availability.RemainingMinutes(a, now),
	}
}

// BusyByTier counts busy agents per tier, for the busy gauge
func (b BoardData) BusyByTier() map[string]int {
	out := make(map[string]int)
	for _, e := range b.Busy {
		out[string(e.Tier)]++
	}
	return out
}

// FormatBoardText returns the text representation of the board
func FormatBoardText(data BoardData) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("FREE (%d)\n", len(data.Free)))
	for _, e := range data.Free {
		sb.WriteString(fmt.Sprintf("  %-14s %-15s %s\n", e.ID, e.Tier, e.Label))
	}
	sb.WriteString(fmt.Sprintf("BUSY (%d)\n", len(data.Busy)))
	for _, e := range data.Busy {
		sb.WriteString(fmt.Sprintf("  %-14s %-15s %s ; lead=%s\n", e.ID, e.Tier, e.Label, e.CurrentLead))
	}
	return sb.String()
}

// FormatBoardJSON returns the JSON representation of the board
func FormatBoardJSON(data BoardData) string {
	jsonBytes, _ := json.MarshalIndent(data, "", "  ")
	return string(jsonBytes)
}

// FormatBoardCSV returns the CSV representation of the board
func FormatBoardCSV(data BoardData) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{"Agent", "Tier", "Seniority", "State", "Current Lead", "Remaining Minutes", "Label"})
	for _, e := range append(append([]BoardEntry{}, data.Free...), data.Busy...) {
		writer.Write([]string{
			e.ID,
			string(e.Tier),
			string(e.Seniority),
			string(e.State),
			e.CurrentLead,
			strconv.Itoa(e.RemainingMinutes),
			e.Label,
		})
	}

	writer.Flush()
	return sb.String()
}
