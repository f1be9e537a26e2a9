// Package user is the user registry: sign-up with field validation,
// uniqueness of id, email and phone, and plaintext sign-in.
package user

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/ottoserve/internal/domain"
	"github.com/hammamikhairi/ottoserve/internal/logger"
)

// Session is the result of a successful sign-in. User is nil for the admin.
type Session struct {
	Admin bool
	User  *domain.User
}

// Option configures the registry.
type Option func(*Registry)

// WithAdmin sets the admin credential. Both parts compare case-insensitively.
func WithAdmin(username, password string) Option {
	return func(r *Registry) {
		r.adminUser = username
		r.adminPass = password
	}
}

// WithClock overrides the time source used for age checks.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// Registry holds registered users. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	users     []domain.User
	repo      domain.UserRepository
	adminUser string
	adminPass string
	now       func() time.Time
	log       *logger.Logger
}

// Open loads saved users from repo. Rows that fail validation are skipped.
func Open(ctx context.Context, repo domain.UserRepository, log *logger.Logger, opts ...Option) (*Registry, error) {
	r := &Registry{
		repo:      repo,
		adminUser: "admin",
		adminPass: "admin",
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(r)
	}

	saved, err := repo.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	now := r.now()
	for i := range saved {
		u := saved[i]
		if err := Validate(&u, now); err != nil {
			log.Warn("skipping corrupted user %q: %v", u.ID, err)
			continue
		}
		if err := r.unique(&u); err != nil {
			log.Warn("skipping user %q: %v", u.ID, err)
			continue
		}
		r.users = append(r.users, u)
	}
	log.Debug("users loaded, count=%d", len(r.users))
	return r, nil
}

// SignUp validates the form and registers the user.
func (r *Registry) SignUp(ctx context.Context, f Form) (*domain.User, error) {
	u, err := NewUser(f, r.now())
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.unique(u); err != nil {
		return nil, err
	}
	r.users = append(r.users, *u)
	if err := r.repo.SaveUsers(ctx, r.users); err != nil {
		r.users = r.users[:len(r.users)-1]
		r.log.Error("saving users: %v", err)
		return nil, fmt.Errorf("saving users: %w", err)
	}
	r.log.Info("user registered: %s (%s)", u.ID, u.Username)
	out := *u
	return &out, nil
}

// SignIn checks the credential against the admin account first, then the
// registered users.
func (r *Registry) SignIn(username, password string) (*Session, error) {
	if strings.EqualFold(username, r.adminUser) && strings.EqualFold(password, r.adminPass) {
		r.log.Info("admin signed in")
		return &Session{Admin: true}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username && u.Password == password {
			r.log.Info("user signed in: %s", u.ID)
			out := u
			return &Session{User: &out}, nil
		}
	}
	r.log.Debug("failed sign-in for %q", username)
	return nil, domain.ErrBadCredentials
}

// Get returns a user by ID.
func (r *Registry) Get(id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "user", Key: id}
}

// List returns every registered user in sign-up order.
func (r *Registry) List() []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.User(nil), r.users...)
}

// unique reports the first of id, email or phone already taken. Callers hold
// r.mu, or own r exclusively.
func (r *Registry) unique(u *domain.User) error {
	for _, have := range r.users {
		switch {
		case have.ID == u.ID:
			return &domain.DuplicateError{Field: "id", Value: u.ID}
		case have.Email == u.Email:
			return &domain.DuplicateError{Field: "email", Value: u.Email}
		case have.Phone == u.Phone:
			return &domain.DuplicateError{Field: "phone", Value: u.Phone}
		}
	}
	return nil
}
