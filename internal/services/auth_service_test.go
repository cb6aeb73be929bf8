package services

import (
	"errors"
	"testing"
	"time"
)

type authStubStore struct {
	users map[string]*User
	err   error
	// hidden emails are invisible to FindUserByEmail but still taken on insert.
	hidden map[string]bool
}

func newAuthStubStore() *authStubStore {
	return &authStubStore{users: map[string]*User{}}
}

func (s *authStubStore) FindUserByEmail(email string) (*User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[email]; ok && !s.hidden[email] {
		copy := *u
		return &copy, nil
	}
	return nil, nil
}

func (s *authStubStore) AddUser(u *User) error {
	if _, ok := s.users[u.Email]; ok {
		return ErrEmailExists
	}
	copy := *u
	s.users[u.Email] = &copy
	return nil
}

func stubSigner(uid, email string, role Role, ttl time.Duration) (string, error) {
	return "token:" + uid + ":" + string(role), nil
}

func TestAuthRegisterAndLogin(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, stubSigner, 0)
	svc.now = func() time.Time { return time.Unix(0, 0) }
	svc.idGen = func(prefix string, n int) string { return prefix + "1234567890" }

	res, err := svc.Register("Student@Example.com ", "Secret123", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.UserID != "u1234567890" || res.Role != RoleStudent {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Token != "token:u1234567890:student" {
		t.Fatalf("unexpected token %q", res.Token)
	}
	if _, ok := store.users["student@example.com"]; !ok {
		t.Fatalf("email should be normalized before storing")
	}

	_, err = svc.Register("student@example.com", "Secret123", RoleStudent)
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict error on duplicate registration, got %v", err)
	}

	loginRes, err := svc.Login("student@example.com", "Secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if loginRes.Token == "" || loginRes.Role != RoleStudent {
		t.Fatalf("unexpected login result: %+v", loginRes)
	}

	if _, err := svc.Login("student@example.com", "wrong"); err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if _, err := svc.Login("missing@example.com", "Secret123"); err == nil {
		t.Fatalf("expected error for missing user")
	}
}

func TestAuthRegisterRejectsCounselorRole(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, stubSigner, time.Hour)

	res, err := svc.Register("c@example.com", "pw", RoleCounselor)
	if res != nil {
		t.Fatalf("expected no result, got %+v", res)
	}
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if len(store.users) != 0 {
		t.Fatalf("no account should be created, got %d", len(store.users))
	}
	if svc.TokenTTL() != time.Hour {
		t.Fatalf("ttl = %v, want 1h", svc.TokenTTL())
	}
}

func TestAuthCreateCounselor(t *testing.T) {
	store := newAuthStubStore()
	svc := NewAuthService(store, stubSigner, 0)
	svc.idGen = func(prefix string, n int) string { return prefix + "c0unselor0" }

	id, err := svc.CreateCounselor(" Lead@Example.com", "Secret123")
	if err != nil {
		t.Fatalf("CreateCounselor returned error: %v", err)
	}
	if id != "uc0unselor0" {
		t.Fatalf("id = %q", id)
	}
	if u := store.users["lead@example.com"]; u == nil || u.Role != RoleCounselor {
		t.Fatalf("expected stored counselor, got %+v", u)
	}
	res, err := svc.Login("lead@example.com", "Secret123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.Role != RoleCounselor || res.Token != "token:uc0unselor0:counselor" {
		t.Fatalf("unexpected login result: %+v", res)
	}

	if _, err := svc.CreateCounselor("lead@example.com", "other"); err == nil {
		t.Fatalf("expected conflict on duplicate counselor")
	}
}

func TestAuthRegisterLosesEmailRace(t *testing.T) {
	store := newAuthStubStore()
	store.users["race@example.com"] = &User{ID: "u-first", Email: "race@example.com", Role: RoleStudent}
	store.hidden = map[string]bool{"race@example.com": true}
	svc := NewAuthService(store, stubSigner, 0)

	_, err := svc.Register("race@example.com", "pw", "")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if store.users["race@example.com"].ID != "u-first" {
		t.Fatalf("first registration was overwritten")
	}
}

func TestAuthValidation(t *testing.T) {
	svc := NewAuthService(newAuthStubStore(), stubSigner, 0)

	if _, err := svc.Register("", "", ""); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := svc.Register("a@example.com", "pw", Role("admin")); err == nil {
		t.Fatalf("expected unknown role error")
	}
	if _, err := svc.Login("", ""); err == nil {
		t.Fatalf("expected validation error on login")
	}
}

func TestAuthStoreFailureIsStorageError(t *testing.T) {
	store := newAuthStubStore()
	store.err = errors.New("disk gone")
	svc := NewAuthService(store, stubSigner, 0)
	_, err := svc.Login("a@example.com", "pw")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
}
