package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/notesmarket/internal/clock"
	"github.com/nikolayk812/notesmarket/internal/domain"
	"github.com/nikolayk812/notesmarket/internal/port"
	"github.com/nikolayk812/notesmarket/internal/validate"
)

const MinPasswordLength = 6

const avatarURL = "https://api.dicebear.com/7.x/initials/svg?seed="

type AuthState int

const (
	StateLoading AuthState = iota
	StateAnonymous
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("unknown state: %d", int(s))
	}
}

// RoleResolver decides the role of a user created without an explicit one.
type RoleResolver interface {
	ResolveRole(email string) domain.Role
}

// EmailRoleResolver is the demo resolver: an email containing "admin" or
// "seller" gets that role, anything else is a buyer. It is not an
// authorization mechanism.
type EmailRoleResolver struct{}

func (EmailRoleResolver) ResolveRole(email string) domain.Role {
	e := strings.ToLower(email)
	switch {
	case strings.Contains(e, "admin"):
		return domain.RoleAdmin
	case strings.Contains(e, "seller"):
		return domain.RoleSeller
	default:
		return domain.RoleBuyer
	}
}

type AuthStore struct {
	repo     port.UserRepository
	resolver RoleResolver
	log      *slog.Logger
	now      func() time.Time
	sleep    clock.Sleeper
	delay    time.Duration

	mu    sync.RWMutex
	state AuthState
	user  domain.User
}

func NewAuthStore(repo port.UserRepository, opts ...Option) *AuthStore {
	o := newOptions(opts)

	return &AuthStore{
		repo:     repo,
		resolver: o.resolver,
		log:      o.log.With("store", "auth"),
		now:      o.now,
		sleep:    o.sleep,
		delay:    o.delay,
		state:    StateLoading,
	}
}

// Init restores a persisted session. A corrupt record is deleted and the
// store becomes anonymous.
func (s *AuthStore) Init(ctx context.Context) error {
	user, err := s.repo.GetUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err == nil:
		s.user = user
		s.state = StateAuthenticated
		s.log.Debug("session restored", "user_id", user.ID, "role", user.Role)
		return nil
	case errors.Is(err, port.ErrNotFound):
		s.setAnonymous()
		return nil
	case errors.Is(err, port.ErrCorrupt):
		s.setAnonymous()
		s.log.Warn("discarding corrupt session", "error", err)
		if delErr := s.repo.DeleteUser(ctx); delErr != nil {
			s.log.Warn("corrupt session delete failed", "error", delErr)
		}
		return nil
	default:
		s.setAnonymous()
		s.log.Error("session load failed", "error", err)
		return fmt.Errorf("%w: repo.GetUser: %w", domain.ErrStorageRead, err)
	}
}

// Login never checks the password against anything; it only validates its
// shape. Logging in again with the persisted email keeps that user's id,
// role and creation time.
func (s *AuthStore) Login(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.TrimSpace(email)

	if err := validateCredentials(email, password); err != nil {
		return domain.User{}, err
	}

	if err := s.sleep(ctx, s.delay); err != nil {
		return domain.User{}, err
	}

	now := s.now()
	user := domain.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      nameFromEmail(email),
		Role:      s.resolver.ResolveRole(email),
		Avatar:    avatarFor(email),
		CreatedAt: now,
	}

	if prev, err := s.repo.GetUser(ctx); err == nil && strings.EqualFold(prev.Email, email) {
		user = prev
	}
	user.LastLoginAt = now

	if err := s.establish(ctx, user); err != nil {
		return domain.User{}, err
	}

	s.log.Info("logged in", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Register creates a new user. An empty role is resolved from the email.
func (s *AuthStore) Register(ctx context.Context, email, password, name string, role domain.Role) (domain.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if err := validateCredentials(email, password); err != nil {
		return domain.User{}, err
	}
	if !validate.Required(name) {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrEmptyField, validate.RequiredMessage("name"))
	}
	if role != "" {
		parsed, err := domain.ParseRole(string(role))
		if err != nil {
			return domain.User{}, fmt.Errorf("%w: %w", domain.ErrInvalidRole, err)
		}
		role = parsed
	}

	if err := s.sleep(ctx, s.delay); err != nil {
		return domain.User{}, err
	}

	if role == "" {
		role = s.resolver.ResolveRole(email)
	}

	now := s.now()
	user := domain.User{
		ID:          uuid.New(),
		Email:       email,
		Name:        name,
		Role:        role,
		Avatar:      avatarFor(name),
		CreatedAt:   now,
		LastLoginAt: now,
	}

	if err := s.establish(ctx, user); err != nil {
		return domain.User{}, err
	}

	s.log.Info("registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Logout always ends the in-memory session. A failure to delete the
// persisted record is logged and returned.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setAnonymous()

	if err := s.repo.DeleteUser(ctx); err != nil {
		s.log.Warn("session delete failed", "error", err)
		return fmt.Errorf("%w: repo.DeleteUser: %w", domain.ErrStorageWrite, err)
	}

	s.log.Info("logged out")
	return nil
}

func (s *AuthStore) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Current returns the session user and whether one is authenticated.
func (s *AuthStore) Current() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user, s.state == StateAuthenticated
}

func (s *AuthStore) HasRole(role domain.Role) bool {
	return s.HasAnyRole(role)
}

func (s *AuthStore) HasAnyRole(roles ...domain.Role) bool {
	user, ok := s.Current()
	if !ok {
		return false
	}

	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// establish persists user and makes it the session. The session only
// changes when the write succeeds.
func (s *AuthStore) establish(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SaveUser(ctx, user); err != nil {
		s.log.Warn("session persist failed", "error", err)
		return fmt.Errorf("%w: repo.SaveUser: %w", domain.ErrStorageWrite, err)
	}

	s.user = user
	s.state = StateAuthenticated
	return nil
}

func (s *AuthStore) setAnonymous() {
	s.user = domain.User{}
	s.state = StateAnonymous
}

func validateCredentials(email, password string) error {
	if !validate.Required(email) {
		return fmt.Errorf("%w: %s", domain.ErrEmptyField, validate.RequiredMessage("email"))
	}
	if !validate.Email(email) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidEmail, validate.EmailMessage("email"))
	}
	if !validate.MinLen(password, MinPasswordLength) {
		return fmt.Errorf("%w: %s", domain.ErrWeakPassword, validate.MinMessage("password", MinPasswordLength))
	}
	return nil
}

func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func avatarFor(seed string) string {
	return avatarURL + url.QueryEscape(seed)
}
