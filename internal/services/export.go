package services

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

type LongRow struct {
	SessionID   string
	UserID      string
	Instrument  string
	Item        int // 1-based item number
	RawValue    int
	ScoreValue  int
	CompletedAt string // RFC3339
}

// ExportLongCSV renders one row per answered item.
func ExportLongCSV(rows []LongRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"session_id", "user_id", "instrument", "item", "raw_value", "score_value", "completed_at"})
	for _, r := range rows {
		rec := []string{
			r.SessionID,
			r.UserID,
			r.Instrument,
			strconv.Itoa(r.Item),
			strconv.Itoa(r.RawValue),
			strconv.Itoa(r.ScoreValue),
			r.CompletedAt,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

type ScoreRow struct {
	SessionID       string
	UserID          string
	CompletedAt     string
	Scores          []int    // raw score per instrument, submission order
	Categories      []string // category per instrument, submission order
	OverallCategory string
	SafetyFlag      bool
}

// ExportScoreCSV renders one row per session. instruments names the
// score/category column pairs in the order rows carry them.
func ExportScoreCSV(instruments []string, rows []ScoreRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"session_id", "user_id", "completed_at"}
	for _, code := range instruments {
		header = append(header, code+"_score", code+"_category")
	}
	header = append(header, "overall_category", "safety_flag")
	_ = w.Write(header)
	for _, r := range rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, r.SessionID, r.UserID, r.CompletedAt)
		for i := range instruments {
			score, category := "", ""
			if i < len(r.Scores) {
				score = strconv.Itoa(r.Scores[i])
			}
			if i < len(r.Categories) {
				category = r.Categories[i]
			}
			rec = append(rec, score, category)
		}
		rec = append(rec, r.OverallCategory, strconv.FormatBool(r.SafetyFlag))
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
