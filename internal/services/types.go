package services

import (
	"time"

	"github.com/soaringjerry/wellcheck/internal/screening"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleCounselor Role = "counselor"
)

type User struct {
	ID        string
	Email     string
	PassHash  []byte
	Role      Role
	CreatedAt time.Time
}

// ScreeningSession is created once per accepted submission and never edited.
type ScreeningSession struct {
	ID              string                     `json:"id"`
	UserID          string                     `json:"user_id"`
	Responses       screening.ResponseSet      `json:"responses"`
	Outcome         screening.TriageOutcome    `json:"outcome"`
	Recommendations []screening.Recommendation `json:"recommendations"`
	CompletedAt     time.Time                  `json:"completed_at"`
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}
