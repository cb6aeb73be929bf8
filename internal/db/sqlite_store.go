package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/soaringjerry/wellcheck/internal/api"
	"github.com/soaringjerry/wellcheck/internal/screening"
	"github.com/soaringjerry/wellcheck/internal/services"
)

const (
	// DriverCGO is github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"
	// DriverPure is modernc.org/sqlite.
	DriverPure = "sqlite"

	queryTimeout = 5 * time.Second
)

// Open connects to the SQLite file at path with the named driver.
func Open(driver, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	var dsn string
	switch driver {
	case DriverCGO:
		dsn = fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(path))
	case DriverPure:
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	default:
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; a single connection also keeps the conditional
	// session insert from failing with a stale WAL snapshot.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLiteStore(db *sql.DB, logger *zap.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

var _ api.Store = (*SQLiteStore)(nil)

func ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), queryTimeout)
}

func toNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

// AddUser inserts u unless its email or id is taken, in which case it
// returns services.ErrEmailExists.
func (s *SQLiteStore) AddUser(u *api.User) error {
	if u == nil {
		return errors.New("user required")
	}
	c, cancel := ctx()
	defer cancel()
	res, err := s.db.ExecContext(c, `
INSERT INTO users (id, email, pass_hash, role, created_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT DO NOTHING`,
		u.ID, strings.ToLower(u.Email), u.PassHash, u.Role, toNanos(u.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n == 0 {
		return services.ErrEmailExists
	}
	return nil
}

func (s *SQLiteStore) FindUserByEmail(email string) (*api.User, error) {
	c, cancel := ctx()
	defer cancel()
	var (
		u       api.User
		created int64
	)
	err := s.db.QueryRowContext(c, `SELECT id, email, pass_hash, role, created_at FROM users WHERE email = ?`, strings.ToLower(email)).
		Scan(&u.ID, &u.Email, &u.PassHash, &u.Role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.CreatedAt = fromNanos(created)
	return &u, nil
}

func (s *SQLiteStore) LastCompletedAt(userID string) (*time.Time, error) {
	c, cancel := ctx()
	defer cancel()
	var last sql.NullInt64
	if err := s.db.QueryRowContext(c, `SELECT MAX(completed_at) FROM screening_sessions WHERE user_id = ?`, userID).Scan(&last); err != nil {
		return nil, fmt.Errorf("last completed session: %w", err)
	}
	if !last.Valid {
		return nil, nil
	}
	t := fromNanos(last.Int64)
	return &t, nil
}

// InsertSession writes the row only if no session for the same user
// completed after cutoff. The check and write are one statement.
func (s *SQLiteStore) InsertSession(sess *api.Session, cutoff time.Time) error {
	if sess == nil {
		return errors.New("session required")
	}
	responses, err := json.Marshal(sess.Responses)
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}
	outcome, err := json.Marshal(sess.Outcome)
	if err != nil {
		return fmt.Errorf("encode outcome: %w", err)
	}
	recs, err := json.Marshal(sess.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}

	c, cancel := ctx()
	defer cancel()
	res, err := s.db.ExecContext(c, `
INSERT INTO screening_sessions (id, user_id, responses, overall_category, safety_flag, outcome, recommendations, completed_at)
SELECT ?, ?, ?, ?, ?, ?, ?, ?
WHERE NOT EXISTS (
    SELECT 1 FROM screening_sessions WHERE user_id = ? AND completed_at > ?
)`,
		sess.ID, sess.UserID, string(responses), string(sess.Outcome.OverallCategory), boolToInt64(sess.Outcome.SafetyFlag),
		string(outcome), string(recs), toNanos(sess.CompletedAt),
		sess.UserID, toNanos(cutoff))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert session rows affected: %w", err)
	}
	if n == 0 {
		return services.ErrCooldownActive
	}
	return nil
}

const sessionColumns = `id, user_id, responses, outcome, recommendations, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*api.Session, error) {
	var (
		sess                     api.Session
		responses, outcome, recs string
		completed                int64
	)
	if err := row.Scan(&sess.ID, &sess.UserID, &responses, &outcome, &recs, &completed); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(responses), &sess.Responses); err != nil {
		return nil, fmt.Errorf("decode responses for %s: %w", sess.ID, err)
	}
	if err := json.Unmarshal([]byte(outcome), &sess.Outcome); err != nil {
		return nil, fmt.Errorf("decode outcome for %s: %w", sess.ID, err)
	}
	if err := json.Unmarshal([]byte(recs), &sess.Recommendations); err != nil {
		return nil, fmt.Errorf("decode recommendations for %s: %w", sess.ID, err)
	}
	if sess.Recommendations == nil {
		sess.Recommendations = []screening.Recommendation{}
	}
	sess.CompletedAt = fromNanos(completed)
	return &sess, nil
}

func (s *SQLiteStore) GetSession(id string) (*api.Session, error) {
	c, cancel := ctx()
	defer cancel()
	sess, err := scanSession(s.db.QueryRowContext(c, `SELECT `+sessionColumns+` FROM screening_sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *SQLiteStore) listSessions(query string, args ...any) ([]*api.Session, error) {
	c, cancel := ctx()
	defer cancel()
	rows, err := s.db.QueryContext(c, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	out := []*api.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) ListSessionsByUser(userID string) ([]*api.Session, error) {
	return s.listSessions(`SELECT `+sessionColumns+` FROM screening_sessions WHERE user_id = ? ORDER BY completed_at, id`, userID)
}

func (s *SQLiteStore) ListSessions() ([]*api.Session, error) {
	return s.listSessions(`SELECT ` + sessionColumns + ` FROM screening_sessions ORDER BY completed_at, id`)
}

func (s *SQLiteStore) AddAudit(e api.AuditEntry) {
	c, cancel := ctx()
	defer cancel()
	if _, err := s.db.ExecContext(c, `INSERT INTO audit_log (ts, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		toNanos(e.Time), e.Actor, e.Action, e.Target, e.Note); err != nil {
		s.logger.Error("insert audit entry", zap.String("action", e.Action), zap.Error(err))
	}
}

func (s *SQLiteStore) ListAudit() []api.AuditEntry {
	c, cancel := ctx()
	defer cancel()
	rows, err := s.db.QueryContext(c, `SELECT ts, actor, action, target, note FROM audit_log ORDER BY id`)
	if err != nil {
		s.logger.Error("list audit entries", zap.Error(err))
		return nil
	}
	defer rows.Close()
	out := []api.AuditEntry{}
	for rows.Next() {
		var (
			e  api.AuditEntry
			ts int64
		)
		if err := rows.Scan(&ts, &e.Actor, &e.Action, &e.Target, &e.Note); err != nil {
			s.logger.Error("scan audit entry", zap.Error(err))
			return out
		}
		e.Time = fromNanos(ts)
		out = append(out, e)
	}
	return out
}
