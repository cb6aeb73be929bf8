package screening

import "time"

// CooldownDays is the minimum number of whole days between two completed screenings.
const CooldownDays = 7

// Cooldown is CooldownDays as a duration.
const Cooldown = CooldownDays * 24 * time.Hour

// EligibilityState says whether a user may start a new screening.
type EligibilityState struct {
	Allowed               bool `json:"allowed"`
	CooldownDaysRemaining int  `json:"cooldown_days_remaining"`
}

// CheckEligibility compares the last completed session against now.
// A nil lastCompletedAt means the user has never been screened.
// A timestamp in the future counts as completed just now.
func CheckEligibility(lastCompletedAt *time.Time, now time.Time) EligibilityState {
	if lastCompletedAt == nil {
		return EligibilityState{Allowed: true}
	}
	daysSince := int(now.Sub(*lastCompletedAt) / (24 * time.Hour))
	if daysSince < 0 {
		daysSince = 0
	}
	remaining := CooldownDays - daysSince
	if remaining < 0 {
		remaining = 0
	}
	return EligibilityState{
		Allowed:               daysSince >= CooldownDays,
		CooldownDaysRemaining: remaining,
	}
}

// CooldownCutoff returns the instant after which a completed session still
// blocks a new one. Storage uses it for the conditional insert.
func CooldownCutoff(now time.Time) time.Time {
	return now.Add(-Cooldown)
}
