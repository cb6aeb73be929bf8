package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/soaringjerry/wellcheck/internal/filelock"
	"github.com/soaringjerry/wellcheck/internal/screening"
	"github.com/soaringjerry/wellcheck/internal/services"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"pass_hash"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	ID              string                     `json:"id"`
	UserID          string                     `json:"user_id"`
	Responses       screening.ResponseSet      `json:"responses"`
	Outcome         screening.TriageOutcome    `json:"outcome"`
	Recommendations []screening.Recommendation `json:"recommendations"`
	CompletedAt     time.Time                  `json:"completed_at"`
}

func (s *Session) clone() *Session {
	cp := *s
	cp.Responses = s.Responses.Clone()
	cp.Recommendations = append([]screening.Recommendation(nil), s.Recommendations...)
	return &cp
}

// audit log
type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

// LegacySnapshot is the JSON layout of a memory store persisted to disk.
type LegacySnapshot struct {
	Users    []*User      `json:"users"`
	Sessions []*Session   `json:"sessions"`
	Audit    []AuditEntry `json:"audit"`
}

type memoryStore struct {
	mu           sync.RWMutex
	usersByEmail map[string]*User
	sessions     map[string]*Session
	byUser       map[string][]*Session
	audit        []AuditEntry

	// snapshotPath is empty for a purely in-memory store.
	snapshotPath string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		usersByEmail: map[string]*User{},
		sessions:     map[string]*Session{},
		byUser:       map[string][]*Session{},
		audit:        []AuditEntry{},
	}
}

// NewMemoryStore returns a store that lives only as long as the process.
func NewMemoryStore() Store { return newMemoryStore() }

// OpenMemoryStore loads path when it exists and writes a fresh snapshot
// after every mutation.
func OpenMemoryStore(path string) (Store, error) {
	s, err := loadMemoryStore(path)
	if errors.Is(err, os.ErrNotExist) {
		s = newMemoryStore()
	} else if err != nil {
		return nil, err
	}
	s.snapshotPath = path
	return s, nil
}

// NewMemoryStoreFromPath reads a snapshot without attaching persistence.
// A missing file yields an error matching os.ErrNotExist.
func NewMemoryStoreFromPath(path string) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("snapshot path: %w", os.ErrNotExist)
	}
	return loadMemoryStore(path)
}

func loadMemoryStore(path string) (*memoryStore, error) {
	data, err := filelock.LockAndRead(path)
	if err != nil {
		return nil, err
	}
	var snap LegacySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	s := newMemoryStore()
	for _, u := range snap.Users {
		if u != nil {
			s.usersByEmail[strings.ToLower(u.Email)] = u
		}
	}
	for _, sess := range snap.Sessions {
		if sess != nil {
			s.putSessionLocked(sess)
		}
	}
	s.audit = append(s.audit, snap.Audit...)
	return s, nil
}

// MemoryStoreSnapshot returns nil for stores that are not memory backed.
func MemoryStoreSnapshot(store Store) *LegacySnapshot {
	s, ok := store.(*memoryStore)
	if !ok || s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *memoryStore) snapshotLocked() *LegacySnapshot {
	snap := &LegacySnapshot{
		Users:    make([]*User, 0, len(s.usersByEmail)),
		Sessions: make([]*Session, 0, len(s.sessions)),
		Audit:    append([]AuditEntry(nil), s.audit...),
	}
	for _, u := range s.usersByEmail {
		snap.Users = append(snap.Users, u)
	}
	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].ID < snap.Users[j].ID })
	for _, sess := range s.sessions {
		snap.Sessions = append(snap.Sessions, sess)
	}
	sortSessions(snap.Sessions)
	return snap
}

func (s *memoryStore) persistLocked() error {
	if s.snapshotPath == "" {
		return nil
	}
	data, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return filelock.LockAndWrite(s.snapshotPath, data)
}

func (s *memoryStore) AddUser(u *User) error {
	if u == nil {
		return errors.New("user required")
	}
	key := strings.ToLower(u.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usersByEmail[key]; taken {
		return services.ErrEmailExists
	}
	s.usersByEmail[key] = u
	if err := s.persistLocked(); err != nil {
		delete(s.usersByEmail, key)
		return err
	}
	return nil
}

func (s *memoryStore) FindUserByEmail(email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersByEmail[strings.ToLower(email)], nil
}

func (s *memoryStore) LastCompletedAt(userID string) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last *time.Time
	for _, sess := range s.byUser[userID] {
		if last == nil || sess.CompletedAt.After(*last) {
			t := sess.CompletedAt
			last = &t
		}
	}
	return last, nil
}

func (s *memoryStore) InsertSession(sess *Session, cutoff time.Time) error {
	if sess == nil {
		return errors.New("session required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byUser[sess.UserID] {
		if existing.CompletedAt.After(cutoff) {
			return services.ErrCooldownActive
		}
	}
	if _, dup := s.sessions[sess.ID]; dup {
		return fmt.Errorf("session %s already exists", sess.ID)
	}
	stored := sess.clone()
	s.putSessionLocked(stored)
	if err := s.persistLocked(); err != nil {
		s.removeSessionLocked(stored)
		return err
	}
	return nil
}

func (s *memoryStore) putSessionLocked(sess *Session) {
	s.sessions[sess.ID] = sess
	s.byUser[sess.UserID] = append(s.byUser[sess.UserID], sess)
}

func (s *memoryStore) removeSessionLocked(sess *Session) {
	delete(s.sessions, sess.ID)
	list := s.byUser[sess.UserID]
	for i, v := range list {
		if v == sess {
			s.byUser[sess.UserID] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
}

func (s *memoryStore) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.sessions[id]
	if sess == nil {
		return nil, nil
	}
	return sess.clone(), nil
}

func (s *memoryStore) ListSessionsByUser(userID string) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.byUser[userID]))
	for _, sess := range s.byUser[userID] {
		out = append(out, sess.clone())
	}
	sortSessions(out)
	return out, nil
}

func (s *memoryStore) ListSessions() ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.clone())
	}
	sortSessions(out)
	return out, nil
}

// AddAudit keeps the entry in memory even when the snapshot write fails.
func (s *memoryStore) AddAudit(e AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, e)
	_ = s.persistLocked()
}

func (s *memoryStore) ListAudit() []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

// sortSessions orders oldest first, ties broken by id.
func sortSessions(list []*Session) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CompletedAt.Equal(list[j].CompletedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CompletedAt.Before(list[j].CompletedAt)
	})
}
