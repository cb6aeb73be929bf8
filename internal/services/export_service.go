package services

import (
	"sort"
	"time"

	"github.com/soaringjerry/wellcheck/internal/screening"
)

type ExportStore interface {
	ListSessions() ([]*ScreeningSession, error)
	AddAudit(entry AuditEntry)
}

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService struct {
	store ExportStore
	now   func() time.Time
}

func NewExportService(store ExportStore) *ExportService {
	return &ExportService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// ExportCSV renders every stored session for a counselor. format is
// "long" (one row per item) or "score" (one row per session).
func (s *ExportService) ExportCSV(c Caller, format string) (*ExportResult, error) {
	if err := requireCounselor(c); err != nil {
		return nil, err
	}
	if format == "" {
		format = "long"
	}
	if format != "long" && format != "score" {
		return nil, NewInvalidError("unsupported format")
	}
	sessions, err := s.store.ListSessions()
	if err != nil {
		return nil, NewStorageError(err)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].CompletedAt.Equal(sessions[j].CompletedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CompletedAt.Before(sessions[j].CompletedAt)
	})

	var (
		b        []byte
		filename string
	)
	switch format {
	case "long":
		b, err = ExportLongCSV(buildLongRows(sessions))
		filename = "screenings_long.csv"
	case "score":
		b, err = ExportScoreCSV(instrumentNames(), buildScoreRows(sessions))
		filename = "screenings_score.csv"
	}
	if err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: c.UserID, Action: "export_screenings", Note: format})
	return &ExportResult{Filename: filename, ContentType: "text/csv; charset=utf-8", Data: b}, nil
}

func instrumentNames() []string {
	out := make([]string, 0, len(screening.Instruments))
	for _, code := range screening.Instruments {
		out = append(out, string(code))
	}
	return out
}

func buildLongRows(sessions []*ScreeningSession) []LongRow {
	var out []LongRow
	for _, sess := range sessions {
		at := sess.CompletedAt.UTC().Format(time.RFC3339)
		for _, code := range screening.Instruments {
			def, ok := screening.Lookup(code)
			if !ok {
				continue
			}
			raw := sess.Responses.For(code)
			scored := screening.ItemScores(def, raw)
			for i, v := range raw {
				out = append(out, LongRow{
					SessionID:   sess.ID,
					UserID:      sess.UserID,
					Instrument:  string(code),
					Item:        i + 1,
					RawValue:    v,
					ScoreValue:  scored[i],
					CompletedAt: at,
				})
			}
		}
	}
	return out
}

func buildScoreRows(sessions []*ScreeningSession) []ScoreRow {
	out := make([]ScoreRow, 0, len(sessions))
	for _, sess := range sessions {
		row := ScoreRow{
			SessionID:       sess.ID,
			UserID:          sess.UserID,
			CompletedAt:     sess.CompletedAt.UTC().Format(time.RFC3339),
			OverallCategory: string(sess.Outcome.OverallCategory),
			SafetyFlag:      sess.Outcome.SafetyFlag,
		}
		for _, code := range screening.Instruments {
			res := sess.Outcome.InstrumentResults.For(code)
			row.Scores = append(row.Scores, res.RawScore)
			row.Categories = append(row.Categories, string(res.Category))
		}
		out = append(out, row)
	}
	return out
}
