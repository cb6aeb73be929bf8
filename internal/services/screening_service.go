package services

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soaringjerry/wellcheck/internal/screening"
)

// ScreeningStore abstracts persistence operations required by ScreeningService.
type ScreeningStore interface {
	// LastCompletedAt returns nil when the user has never completed a session.
	LastCompletedAt(userID string) (*time.Time, error)
	// InsertSession stores s unless the user already has a session completed
	// after cutoff, in which case it returns ErrCooldownActive. The check and
	// the insert must be atomic per user.
	InsertSession(s *ScreeningSession, cutoff time.Time) error
	// GetSession returns nil when no session has the id.
	GetSession(id string) (*ScreeningSession, error)
	ListSessionsByUser(userID string) ([]*ScreeningSession, error)
}

// Caller is the authenticated identity behind a request.
type Caller struct {
	UserID string
	Role   Role
}

// ScreeningService runs the submission workflow: validate, gate, score,
// triage, recommend, persist.
type ScreeningService struct {
	store       ScreeningStore
	logger      *zap.Logger
	now         func() time.Time
	idGenerator func() string
}

func NewScreeningService(store ScreeningStore, logger *zap.Logger) *ScreeningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreeningService{
		store:       store,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

func requireStudent(c Caller) error {
	if c.UserID == "" {
		return NewUnauthorizedError("unauthorized")
	}
	if c.Role != RoleStudent {
		return NewForbiddenError("forbidden")
	}
	return nil
}

// Submit scores a response set and persists the resulting session.
// Nothing is written unless every step before persistence succeeds.
func (s *ScreeningService) Submit(c Caller, responses screening.ResponseSet) (*ScreeningSession, error) {
	if err := requireStudent(c); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, NewStorageError(errors.New("screening store is nil"))
	}
	if err := screening.ValidateSet(responses); err != nil {
		return nil, NewValidationError(err)
	}

	now := s.now()
	last, err := s.store.LastCompletedAt(c.UserID)
	if err != nil {
		s.logger.Error("load last completed session", zap.String("user_id", c.UserID), zap.Error(err))
		return nil, NewStorageError(err)
	}
	if elig := screening.CheckEligibility(last, now); !elig.Allowed {
		return nil, NewCooldownError(elig.CooldownDaysRemaining)
	}

	submitted := responses.Clone()
	outcome, err := screening.Evaluate(submitted)
	if err != nil {
		return nil, NewValidationError(err)
	}
	session := &ScreeningSession{
		ID:              s.idGenerator(),
		UserID:          c.UserID,
		Responses:       submitted,
		Outcome:         outcome,
		Recommendations: screening.Recommend(outcome.OverallCategory, outcome.SafetyFlag),
		CompletedAt:     now,
	}

	if err := s.store.InsertSession(session, screening.CooldownCutoff(now)); err != nil {
		if errors.Is(err, ErrCooldownActive) {
			return nil, NewCooldownError(s.remainingAfterRace(c.UserID, now))
		}
		s.logger.Error("persist screening session", zap.String("user_id", c.UserID), zap.Error(err))
		return nil, NewStorageError(err)
	}

	fields := []zap.Field{
		zap.String("session_id", session.ID),
		zap.String("overall_category", string(outcome.OverallCategory)),
		zap.Bool("safety_flag", outcome.SafetyFlag),
	}
	if outcome.OverallCategory == screening.TriageCrisisAlert {
		s.logger.Warn("screening completed with crisis alert", fields...)
	} else {
		s.logger.Info("screening completed", fields...)
	}
	return session, nil
}

// remainingAfterRace recomputes the wait after a concurrent submission won
// the conditional insert.
func (s *ScreeningService) remainingAfterRace(userID string, now time.Time) int {
	last, err := s.store.LastCompletedAt(userID)
	if err != nil || last == nil {
		return screening.CooldownDays
	}
	if days := screening.CheckEligibility(last, now).CooldownDaysRemaining; days > 0 {
		return days
	}
	return screening.CooldownDays
}

// Eligibility lets a caller pre-flight a retake without submitting.
func (s *ScreeningService) Eligibility(c Caller) (screening.EligibilityState, error) {
	if err := requireStudent(c); err != nil {
		return screening.EligibilityState{}, err
	}
	last, err := s.store.LastCompletedAt(c.UserID)
	if err != nil {
		s.logger.Error("load last completed session", zap.String("user_id", c.UserID), zap.Error(err))
		return screening.EligibilityState{}, NewStorageError(err)
	}
	return screening.CheckEligibility(last, s.now()), nil
}

// GetResult returns a persisted session to its owner only.
func (s *ScreeningService) GetResult(c Caller, sessionID string) (*ScreeningSession, error) {
	if err := requireStudent(c); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, NewInvalidError("session id required")
	}
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		s.logger.Error("load screening session", zap.String("session_id", sessionID), zap.Error(err))
		return nil, NewStorageError(err)
	}
	if session == nil {
		return nil, NewNotFoundError("not found")
	}
	if session.UserID != c.UserID {
		return nil, NewForbiddenError("forbidden")
	}
	return session, nil
}

// History lists the caller's own sessions, newest first.
func (s *ScreeningService) History(c Caller) ([]*ScreeningSession, error) {
	if err := requireStudent(c); err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessionsByUser(c.UserID)
	if err != nil {
		s.logger.Error("list screening sessions", zap.String("user_id", c.UserID), zap.Error(err))
		return nil, NewStorageError(err)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CompletedAt.After(sessions[j].CompletedAt)
	})
	return sessions, nil
}
