package models

import "time"

// Unassigned is the assignee recorded when no agent could take a lead.
const Unassigned = "UNASSIGNED"

// Tier is the classification bucket shared by leads and agents.
type Tier string

const (
	TierPotential     Tier = "POTENTIAL"
	TierSemiPotential Tier = "SEMI_POTENTIAL"
	TierInformational Tier = "INFORMATIONAL"
	TierOther         Tier = "OTHER"
)

// Rank orders lead tiers: INFORMATIONAL < SEMI_POTENTIAL < POTENTIAL.
// OTHER is never produced by classification and ranks below all of them.
func (t Tier) Rank() int {
	switch t {
	case TierPotential:
		return 3
	case TierSemiPotential:
		return 2
	case TierInformational:
		return 1
	default:
		return 0
	}
}

// Routed reports whether leads of this tier go through the rotation pool.
func (t Tier) Routed() bool {
	return t == TierPotential || t == TierSemiPotential
}

// Seniority is informational only and plays no part in routing.
type Seniority string

const (
	SeniorityMaster  Seniority = "MASTER"
	SenioritySenior  Seniority = "SENIOR"
	SeniorityJunior  Seniority = "JUNIOR"
	SeniorityGeneral Seniority = "GENERAL"
)

// AvailabilityState is the authoritative FREE/BUSY state of an agent.
type AvailabilityState string

const (
	StateFree AvailabilityState = "FREE"
	StateBusy AvailabilityState = "BUSY"
)

// Agent is a single routable (or OTHER-tier) sales agent.
type Agent struct {
	ID        string            `json:"id"`
	Tier      Tier              `json:"tier"`
	Seniority Seniority         `json:"seniority"`
	State     AvailabilityState `json:"state"`
	// LastAssignedAt is nil for agents that never received a lead.
	LastAssignedAt *time.Time `json:"last_assigned_at,omitempty"`
	// CurrentLeadID is set iff State is BUSY.
	CurrentLeadID   string `json:"current_lead_id,omitempty"`
	CurrentLeadName string `json:"current_lead_name,omitempty"`
	// AvailableAgainAt gates new rotation assignments only.
	AvailableAgainAt *time.Time `json:"available_again_at,omitempty"`
	// Version increases on every write and backs compare-and-swap updates.
	Version uint64 `json:"version"`
}

// Busy reports whether the agent is currently handling a lead.
func (a Agent) Busy() bool {
	return a.State == StateBusy
}

// Clone returns a deep copy so callers never share time pointers with a store.
func (a Agent) Clone() Agent {
	out := a
	if a.LastAssignedAt != nil {
		t := *a.LastAssignedAt
		out.LastAssignedAt = &t
	}
	if a.AvailableAgainAt != nil {
		t := *a.AvailableAgainAt
		out.AvailableAgainAt = &t
	}
	return out
}

// MaritalStatus of the prospect.
type MaritalStatus string

const (
	MaritalSingle     MaritalStatus = "SINGLE"
	MaritalMarried    MaritalStatus = "MARRIED"
	MaritalCohabiting MaritalStatus = "COHABITING"
)

// CapitalType describes how the prospect would pay.
type CapitalType string

const (
	CapitalBankAccount CapitalType = "BANK_ACCOUNT"
	CapitalCash        CapitalType = "CASH"
)

// Urgency of the purchase.
type Urgency string

const (
	UrgencyImmediate Urgency = "IMMEDIATE"
	UrgencyCanWait   Urgency = "CAN_WAIT"
)

// Risk flag recorded by the registrant.
type Risk string

const (
	RiskNormal Risk = "NORMAL"
	RiskLoss   Risk = "LOSS"
)

// Answers holds the questionnaire fields used for scoring.
type Answers struct {
	MaritalStatus  MaritalStatus `json:"marital_status"`
	PartnerDecides bool          `json:"partner_decides"`
	Capital        CapitalType   `json:"capital"`
	Urgency        Urgency       `json:"urgency"`
	Risk           Risk          `json:"risk"`
}

// Submission is a lead as entered by a registrant, before evaluation.
type Submission struct {
	Name       string   `json:"name" validate:"required"`
	Phone      string   `json:"phone,omitempty"`
	Owner      string   `json:"owner" validate:"required"`
	Registrant string   `json:"registrant,omitempty"`
	Models     []string `json:"models,omitempty" validate:"max=3"`
	Answers    Answers  `json:"answers"`
}

// AssignmentDecision is the transient output of the assignment engine.
type AssignmentDecision struct {
	Tier            Tier   `json:"tier"`
	Score           int    `json:"score"`
	AssignedAgentID string `json:"assigned_agent_id"`
	// RegistrantMissing is set when an INFORMATIONAL lead names a registrant
	// that is not in the directory.
	RegistrantMissing bool `json:"registrant_missing,omitempty"`
}

// Lead is the immutable record persisted after evaluation.
type Lead struct {
	ID string `json:"id"`
	Submission
	Score           int       `json:"score"`
	Tier            Tier      `json:"tier"`
	AssignedAgentID string    `json:"assigned_agent_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// TierCounts tallies evaluated leads per classification.
type TierCounts struct {
	Potential     int `json:"potential"`
	SemiPotential int `json:"semi_potential"`
	Informational int `json:"informational"`
}

// Add increments the counter matching t.
func (c *TierCounts) Add(t Tier) {
	c.AddN(t, 1)
}

// AddN adds n to the counter matching t. Other tiers are ignored.
func (c *TierCounts) AddN(t Tier, n int) {
	switch t {
	case TierPotential:
		c.Potential += n
	case TierSemiPotential:
		c.SemiPotential += n
	case TierInformational:
		c.Informational += n
	}
}

// Total returns the number of counted leads.
func (c TierCounts) Total() int {
	return c.Potential + c.SemiPotential + c.Informational
}
