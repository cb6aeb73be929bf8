package api

import "time"

// Store is the persistence surface shared by the memory and SQLite backends.
type Store interface {
	AddUser(u *User) error
	FindUserByEmail(email string) (*User, error)

	// LastCompletedAt returns nil when the user has no sessions.
	LastCompletedAt(userID string) (*time.Time, error)
	// InsertSession fails with services.ErrCooldownActive when the user
	// already has a session completed after cutoff.
	InsertSession(s *Session, cutoff time.Time) error
	GetSession(id string) (*Session, error)
	ListSessionsByUser(userID string) ([]*Session, error)
	ListSessions() ([]*Session, error)

	AddAudit(e AuditEntry)
	ListAudit() []AuditEntry
}

var _ Store = (*memoryStore)(nil)
