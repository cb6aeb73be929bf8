package services

import (
	"sort"

	"github.com/soaringjerry/wellcheck/internal/screening"
)

type AnalyticsStore interface {
	ListSessions() ([]*ScreeningSession, error)
}

type AnalyticsService struct {
	store AnalyticsStore
}

type InstrumentAnalytics struct {
	Code       screening.Instrument       `json:"code"`
	MeanScore  float64                    `json:"mean_score"`
	Categories map[screening.Category]int `json:"categories"`
	Alpha      float64                    `json:"alpha"`
	N          int                        `json:"n"`
}

type AnalyticsTimeseries struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsSummary aggregates every stored session for counselors.
// It carries counts only, never per-user data.
type AnalyticsSummary struct {
	TotalSessions int                              `json:"total_sessions"`
	SafetyFlags   int                              `json:"safety_flags"`
	Triage        map[screening.TriageCategory]int `json:"triage"`
	Instruments   []InstrumentAnalytics            `json:"instruments"`
	Timeseries    []AnalyticsTimeseries            `json:"timeseries"`
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

func requireCounselor(c Caller) error {
	if c.UserID == "" {
		return NewUnauthorizedError("unauthorized")
	}
	if c.Role != RoleCounselor {
		return NewForbiddenError("forbidden")
	}
	return nil
}

func (s *AnalyticsService) Summary(c Caller) (*AnalyticsSummary, error) {
	if err := requireCounselor(c); err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessions()
	if err != nil {
		return nil, NewStorageError(err)
	}
	summary := &AnalyticsSummary{
		TotalSessions: len(sessions),
		Triage: map[screening.TriageCategory]int{
			screening.TriageLow:         0,
			screening.TriageModerate:    0,
			screening.TriageHigh:        0,
			screening.TriageCrisisAlert: 0,
		},
	}
	countsByDay := map[string]int{}
	for _, sess := range sessions {
		summary.Triage[sess.Outcome.OverallCategory]++
		if sess.Outcome.SafetyFlag {
			summary.SafetyFlags++
		}
		countsByDay[sess.CompletedAt.UTC().Format("2006-01-02")]++
	}
	for _, code := range screening.Instruments {
		summary.Instruments = append(summary.Instruments, buildInstrumentAnalytics(code, sessions))
	}
	summary.Timeseries = buildTimeseries(countsByDay)
	return summary, nil
}

func buildInstrumentAnalytics(code screening.Instrument, sessions []*ScreeningSession) InstrumentAnalytics {
	out := InstrumentAnalytics{Code: code, Categories: map[screening.Category]int{}}
	if len(sessions) == 0 {
		return out
	}
	var total int
	for _, sess := range sessions {
		res := sess.Outcome.InstrumentResults.For(code)
		total += res.RawScore
		out.Categories[res.Category]++
	}
	out.MeanScore = float64(total) / float64(len(sessions))
	matrix := buildAlphaMatrix(code, sessions)
	out.Alpha = CronbachAlpha(matrix)
	out.N = len(matrix)
	return out
}

// buildAlphaMatrix uses scored item values so reversed and binarized items
// point the same way as the rest of the instrument.
func buildAlphaMatrix(code screening.Instrument, sessions []*ScreeningSession) [][]float64 {
	def, ok := screening.Lookup(code)
	if !ok {
		return nil
	}
	matrix := make([][]float64, 0, len(sessions))
	for _, sess := range sessions {
		responses := sess.Responses.For(code)
		if screening.Validate(code, responses) != nil {
			continue
		}
		scores := screening.ItemScores(def, responses)
		row := make([]float64, len(scores))
		for i, v := range scores {
			row[i] = float64(v)
		}
		matrix = append(matrix, row)
	}
	return matrix
}

func buildTimeseries(counts map[string]int) []AnalyticsTimeseries {
	days := make([]string, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	sort.Strings(days)
	out := make([]AnalyticsTimeseries, 0, len(days))
	for _, d := range days {
		out = append(out, AnalyticsTimeseries{Date: d, Count: counts[d]})
	}
	return out
}
