package screening

import (
	"testing"
	"time"
)

func TestCheckEligibility(t *testing.T) {
	now := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(-d)
		return &v
	}
	day := 24 * time.Hour
	cases := []struct {
		name      string
		last      *time.Time
		allowed   bool
		remaining int
	}{
		{"never screened", nil, true, 0},
		{"just now", at(0), false, 7},
		{"one day", at(day), false, 6},
		{"six days", at(6 * day), false, 1},
		{"six days twenty three hours", at(7*day - time.Hour), false, 1},
		{"seven days", at(7 * day), true, 0},
		{"thirty days", at(30 * day), true, 0},
		{"future timestamp", at(-2 * day), false, 7},
	}
	for _, c := range cases {
		got := CheckEligibility(c.last, now)
		if got.Allowed != c.allowed || got.CooldownDaysRemaining != c.remaining {
			t.Fatalf("%s: got %+v, want allowed=%v remaining=%d", c.name, got, c.allowed, c.remaining)
		}
	}
}

func TestCooldownCutoffMatchesGate(t *testing.T) {
	now := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	cutoff := CooldownCutoff(now)
	if !CheckEligibility(&cutoff, now).Allowed {
		t.Fatalf("session exactly at cutoff must not block")
	}
	justAfter := cutoff.Add(time.Nanosecond)
	if CheckEligibility(&justAfter, now).Allowed {
		t.Fatalf("session after cutoff must block")
	}
}
