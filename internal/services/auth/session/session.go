// Package session issues and resolves durable web sessions.
//
// The web layer only ever holds the opaque session ID; every identity lookup
// goes back through Resolve so a revoked or expired session stops working on
// the next request.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ifc-cambodge/sreyka/internal/platform/errors"
	"github.com/ifc-cambodge/sreyka/internal/platform/id"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/user"
)

// DefaultTTL is the lifetime of a web session when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidSession indicates a missing, unknown or revoked session.
	ErrInvalidSession = apperrors.New(apperrors.CodeSessionInvalid, "web session is invalid")
	// ErrExpiredSession indicates a session past its expiry.
	ErrExpiredSession = apperrors.New(apperrors.CodeSessionExpired, "web session is expired")
	// ErrInvalidCredentials indicates an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Principal is the identity behind an active web session.
type Principal struct {
	SessionID string
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Store is the persistence surface the session service needs.
type Store interface {
	storage.UserStore
	storage.WebSessionStore
}

// Service issues, resolves and revokes web sessions.
type Service struct {
	store       Store
	hasher      user.Hasher
	ttl         time.Duration
	clock       func() time.Time
	idGenerator func() (string, error)
}

// Option customizes a Service.
type Option func(*Service)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides id.NewID.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.idGenerator = gen
		}
	}
}

// WithHasher overrides the bcrypt hasher used by SignIn.
func WithHasher(hasher user.Hasher) Option {
	return func(s *Service) {
		if hasher != nil {
			s.hasher = hasher
		}
	}
}

// NewService builds a session service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		hasher:      user.DefaultHasher(),
		ttl:         DefaultTTL,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New builds, without persisting, a fresh session for userID.
func (s *Service) New(userID string) (storage.WebSession, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.WebSession{}, fmt.Errorf("user id is required")
	}
	sessionID, err := s.idGenerator()
	if err != nil {
		return storage.WebSession{}, fmt.Errorf("generate web session id: %w", err)
	}
	now := s.clock().UTC()
	return storage.WebSession{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}, nil
}

// SignIn verifies credentials and persists a new session for the user.
func (s *Service) SignIn(ctx context.Context, email string, password string) (storage.WebSession, error) {
	if s == nil || s.store == nil {
		return storage.WebSession{}, fmt.Errorf("session store is not configured")
	}
	found, err := s.store.GetUserByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.WebSession{}, ErrInvalidCredentials
		}
		return storage.WebSession{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := user.VerifyPassword(found, password, s.hasher); err != nil {
		if errors.Is(err, user.ErrPasswordMismatch) {
			return storage.WebSession{}, ErrInvalidCredentials
		}
		return storage.WebSession{}, fmt.Errorf("verify password: %w", err)
	}
	session, err := s.New(found.ID)
	if err != nil {
		return storage.WebSession{}, err
	}
	if err := s.store.PutWebSession(ctx, session); err != nil {
		return storage.WebSession{}, err
	}
	return session, nil
}

// Resolve returns the principal for an active session.
func (s *Service) Resolve(ctx context.Context, sessionID string) (Principal, error) {
	if s == nil || s.store == nil {
		return Principal{}, fmt.Errorf("session store is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Principal{}, ErrInvalidSession
	}
	found, err := s.store.GetWebSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Principal{}, ErrInvalidSession
		}
		return Principal{}, fmt.Errorf("get web session: %w", err)
	}
	if found.RevokedAt != nil {
		return Principal{}, ErrInvalidSession
	}
	if !found.Active(s.clock().UTC()) {
		return Principal{}, ErrExpiredSession
	}
	owner, err := s.store.GetUser(ctx, found.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Principal{}, ErrInvalidSession
		}
		return Principal{}, fmt.Errorf("get session user: %w", err)
	}
	return Principal{
		SessionID: found.ID,
		UserID:    owner.ID,
		Email:     owner.Email,
		ExpiresAt: found.ExpiresAt,
	}, nil
}

// Revoke invalidates a session. Unknown sessions are not an error.
func (s *Service) Revoke(ctx context.Context, sessionID string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("session store is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	if err := s.store.RevokeWebSession(ctx, sessionID, s.clock().UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("revoke web session: %w", err)
	}
	return nil
}
