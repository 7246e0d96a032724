// Package availability implements the agent availability state machine:
// FREE -> BUSY on assignment, an advisory window that gates new rotation
// assignments, and the manual extend and release controls.
package availability

import (
	"math"
	"time"

	"lead-router/models"
)

const (
	// BusyWindow is how long a freshly assigned agent stays out of rotation.
	BusyWindow = 40 * time.Minute
	// ExtensionStep is added to the window by Extend.
	ExtensionStep = 30 * time.Minute
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// WindowElapsed reports whether the availability window no longer blocks
// a new assignment. An absent window never blocks.
func WindowElapsed(a models.Agent, now time.Time) bool {
	return a.AvailableAgainAt == nil || !now.Before(*a.AvailableAgainAt)
}

// Eligible reports whether a can be picked by rotation at now.
func Eligible(a models.Agent, now time.Time) bool {
	return a.State == models.StateFree && WindowElapsed(a, now)
}

// MarkBusy records an assignment of lead to a, overwriting any current state.
func MarkBusy(a *models.Agent, leadID, leadName string, now time.Time) {
	until := now.Add(BusyWindow)
	at := now
	a.State = models.StateBusy
	a.CurrentLeadID = leadID
	a.CurrentLeadName = leadName
	a.LastAssignedAt = &at
	a.AvailableAgainAt = &until
}

// Extend pushes the window forward by ExtensionStep from its current end,
// or from now when there is none. State is not touched.
func Extend(a *models.Agent, now time.Time) {
	base := now
	if a.AvailableAgainAt != nil {
		base = *a.AvailableAgainAt
	}
	until := base.Add(ExtensionStep)
	a.AvailableAgainAt = &until
}

// Release frees the agent. AvailableAgainAt is kept and still gates rotation.
func Release(a *models.Agent) {
	a.State = models.StateFree
	a.CurrentLeadID = ""
	a.CurrentLeadName = ""
}

// RemainingMinutes rounds the time left in the window up to whole minutes.
// It returns 0 once the window has elapsed or when there is none.
func RemainingMinutes(a models.Agent, now time.Time) int {
	if a.AvailableAgainAt == nil {
		return 0
	}
	left := a.AvailableAgainAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Minutes()))
}

// AssignedBefore orders agents for rotation: a never-assigned agent sorts
// before any assigned one, otherwise the earlier assignment wins.
func AssignedBefore(a, b models.Agent) bool {
	switch {
	case a.LastAssignedAt == nil:
		return b.LastAssignedAt != nil
	case b.LastAssignedAt == nil:
		return false
	default:
		return a.LastAssignedAt.Before(*b.LastAssignedAt)
	}
}
