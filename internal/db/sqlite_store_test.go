package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/wellcheck/internal/api"
	"github.com/soaringjerry/wellcheck/internal/screening"
	"github.com/soaringjerry/wellcheck/internal/services"
)

var now = time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := Open(DriverPure, filepath.Join(t.TempDir(), "wellcheck.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db, ""))
	// a second run must be a no-op
	require.NoError(t, RunMigrations(db, ""))
	store, err := NewSQLiteStore(db, nil)
	require.NoError(t, err)
	return store
}

func evaluated(t *testing.T, id, user string, at time.Time) *api.Session {
	t.Helper()
	set := screening.ResponseSet{
		PHQ9:  []int{1, 1, 1, 1, 1, 1, 1, 1, 0},
		GAD7:  []int{1, 1, 1, 1, 1, 1, 1},
		PSS10: []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
		GHQ12: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}
	outcome, err := screening.Evaluate(set)
	require.NoError(t, err)
	return &api.Session{
		ID:              id,
		UserID:          user,
		Responses:       set,
		Outcome:         outcome,
		Recommendations: screening.Recommend(outcome.OverallCategory, outcome.SafetyFlag),
		CompletedAt:     at,
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("postgres", filepath.Join(t.TempDir(), "x.db"))
	assert.Error(t, err)
	_, err = Open(DriverPure, "")
	assert.Error(t, err)
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddUser(&api.User{ID: "u1", Email: "Ada@Example.edu", PassHash: []byte("hash"), Role: "student", CreatedAt: now}))

	u, err := s.FindUserByEmail("ada@example.edu")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, []byte("hash"), u.PassHash)
	assert.True(t, u.CreatedAt.Equal(now))

	missing, err := s.FindUserByEmail("nobody@example.edu")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = s.AddUser(&api.User{ID: "u2", Email: "ADA@example.edu", PassHash: []byte("x"), Role: "counselor", CreatedAt: now})
	assert.ErrorIs(t, err, services.ErrEmailExists)
	u, err = s.FindUserByEmail("ada@example.edu")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "student", u.Role)
	err = s.AddUser(&api.User{ID: "u3", Email: "eve@example.edu", PassHash: []byte("x"), Role: "admin", CreatedAt: now})
	assert.Error(t, err, "role is constrained")
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := evaluated(t, "s1", "u1", now)
	require.NoError(t, s.InsertSession(in, screening.CooldownCutoff(now)))

	got, err := s.GetSession("s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, in.Responses, got.Responses)
	assert.Equal(t, in.Outcome, got.Outcome)
	assert.Equal(t, in.Recommendations, got.Recommendations)
	assert.True(t, got.CompletedAt.Equal(now))

	missing, err := s.GetSession("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestConditionalInsert(t *testing.T) {
	s := newTestStore(t)

	last, err := s.LastCompletedAt("u1")
	require.NoError(t, err)
	assert.Nil(t, last)

	require.NoError(t, s.InsertSession(evaluated(t, "old", "u1", now.Add(-10*24*time.Hour)), screening.CooldownCutoff(now)))
	require.NoError(t, s.InsertSession(evaluated(t, "s1", "u1", now), screening.CooldownCutoff(now)))

	later := now.Add(6 * 24 * time.Hour)
	err = s.InsertSession(evaluated(t, "s2", "u1", later), screening.CooldownCutoff(later))
	assert.ErrorIs(t, err, services.ErrCooldownActive)

	last, err = s.LastCompletedAt("u1")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Equal(now))

	eligible := now.Add(7 * 24 * time.Hour)
	require.NoError(t, s.InsertSession(evaluated(t, "s3", "u1", eligible), screening.CooldownCutoff(eligible)))

	list, err := s.ListSessionsByUser("u1")
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, sess := range list {
		ids = append(ids, sess.ID)
	}
	assert.Equal(t, []string{"old", "s1", "s3"}, ids)
}

func TestConcurrentInsertOnlyOneWins(t *testing.T) {
	s := newTestStore(t)
	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	sessions := make([]*api.Session, n)
	for i := range sessions {
		sessions[i] = evaluated(t, fmt.Sprintf("s%d", i), "u1", now)
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.InsertSession(sessions[i], screening.CooldownCutoff(now))
			switch {
			case err == nil:
				mu.Lock()
				wins++
				mu.Unlock()
			case !errors.Is(err, services.ErrCooldownActive):
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	all, err := s.ListSessions()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestConcurrentAddUserSameEmail(t *testing.T) {
	s := newTestStore(t)
	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.AddUser(&api.User{ID: fmt.Sprintf("u%d", i), Email: "same@example.edu", PassHash: []byte("h"), Role: "student", CreatedAt: now})
			switch {
			case err == nil:
				mu.Lock()
				wins++
				mu.Unlock()
			case !errors.Is(err, services.ErrEmailExists):
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestAudit(t *testing.T) {
	s := newTestStore(t)
	s.AddAudit(api.AuditEntry{Time: now, Actor: "c1", Action: "export_screenings", Note: "long"})
	entries := s.ListAudit()
	require.Len(t, entries, 1)
	assert.Equal(t, "export_screenings", entries[0].Action)
	assert.True(t, entries[0].Time.Equal(now))
}

func TestRunMigrationsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001_only.sql"), []byte("CREATE TABLE IF NOT EXISTS marker (id INTEGER);"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	db, err := Open(DriverPure, filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, RunMigrations(db, dir))

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'marker'`).Scan(&name))
	assert.Equal(t, "marker", name)
}

func TestRunMigrationsFallsBackToEmbedded(t *testing.T) {
	files, err := loadMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_init.sql", files[0].name)
}
