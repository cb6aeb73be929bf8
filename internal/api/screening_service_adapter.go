package api

import (
	"time"

	"github.com/soaringjerry/wellcheck/internal/services"
)

// sessionStoreAdapter serves the screening, analytics and export services.
type sessionStoreAdapter struct {
	store Store
}

func newSessionStoreAdapter(store Store) *sessionStoreAdapter {
	return &sessionStoreAdapter{store: store}
}

func (a *sessionStoreAdapter) LastCompletedAt(userID string) (*time.Time, error) {
	return a.store.LastCompletedAt(userID)
}

func (a *sessionStoreAdapter) InsertSession(s *services.ScreeningSession, cutoff time.Time) error {
	if s == nil {
		return services.NewInvalidError("session required")
	}
	return a.store.InsertSession(toAPISession(s), cutoff)
}

func (a *sessionStoreAdapter) GetSession(id string) (*services.ScreeningSession, error) {
	s, err := a.store.GetSession(id)
	if err != nil || s == nil {
		return nil, err
	}
	return toServiceSession(s), nil
}

func (a *sessionStoreAdapter) ListSessionsByUser(userID string) ([]*services.ScreeningSession, error) {
	list, err := a.store.ListSessionsByUser(userID)
	if err != nil {
		return nil, err
	}
	return toServiceSessions(list), nil
}

func (a *sessionStoreAdapter) ListSessions() ([]*services.ScreeningSession, error) {
	list, err := a.store.ListSessions()
	if err != nil {
		return nil, err
	}
	return toServiceSessions(list), nil
}

func (a *sessionStoreAdapter) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(AuditEntry{Time: e.Time, Actor: e.Actor, Action: e.Action, Target: e.Target, Note: e.Note})
}

func toAPISession(s *services.ScreeningSession) *Session {
	return &Session{
		ID:              s.ID,
		UserID:          s.UserID,
		Responses:       s.Responses,
		Outcome:         s.Outcome,
		Recommendations: s.Recommendations,
		CompletedAt:     s.CompletedAt,
	}
}

func toServiceSession(s *Session) *services.ScreeningSession {
	return &services.ScreeningSession{
		ID:              s.ID,
		UserID:          s.UserID,
		Responses:       s.Responses,
		Outcome:         s.Outcome,
		Recommendations: s.Recommendations,
		CompletedAt:     s.CompletedAt,
	}
}

func toServiceSessions(list []*Session) []*services.ScreeningSession {
	out := make([]*services.ScreeningSession, 0, len(list))
	for _, s := range list {
		out = append(out, toServiceSession(s))
	}
	return out
}

var (
	_ services.ScreeningStore = (*sessionStoreAdapter)(nil)
	_ services.AnalyticsStore = (*sessionStoreAdapter)(nil)
	_ services.ExportStore    = (*sessionStoreAdapter)(nil)
)
