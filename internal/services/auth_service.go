package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthStore interface {
	FindUserByEmail(email string) (*User, error)
	AddUser(u *User) error
}

type TokenSigner func(uid, email string, role Role, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func(prefix string, n int) string
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token  string
	UserID string
	Role   Role
}

func NewAuthService(store AuthStore, signer TokenSigner, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func(prefix string, n int) string { return prefix + shortID(n) },
		signToken: signer,
		tokenTTL:  ttl,
	}
}

// Register creates a student account. Counselor accounts cannot be
// self-assigned; they come from CreateCounselor.
func (s *AuthService) Register(email, password string, role Role) (*AuthResult, error) {
	switch role {
	case "", RoleStudent:
	case RoleCounselor:
		return nil, NewForbiddenError("counselor accounts are created by an administrator")
	default:
		return nil, NewInvalidError("unknown role")
	}
	userID, email, err := s.createUser(email, password, RoleStudent)
	if err != nil {
		return nil, err
	}
	return s.issue(userID, email, RoleStudent)
}

// CreateCounselor provisions a counselor account from a trusted,
// server-side caller. It returns the new user id.
func (s *AuthService) CreateCounselor(email, password string) (string, error) {
	userID, _, err := s.createUser(email, password, RoleCounselor)
	return userID, err
}

func (s *AuthService) createUser(email, password string, role Role) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return "", "", NewInvalidError("email/password required")
	}
	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return "", "", NewStorageError(err)
	}
	if existing != nil {
		return "", "", NewConflictError("email exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	userID := s.idGen("u", 10)
	if err := s.store.AddUser(&User{ID: userID, Email: email, PassHash: hash, Role: role, CreatedAt: s.now()}); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return "", "", NewConflictError("email exists")
		}
		return "", "", NewStorageError(err)
	}
	return userID, email, nil
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, NewStorageError(err)
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	return s.issue(u.ID, u.Email, u.Role)
}

func (s *AuthService) issue(uid, email string, role Role) (*AuthResult, error) {
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(uid, email, role, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: uid, Role: role}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
