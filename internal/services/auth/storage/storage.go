package storage

import (
	"context"
	"time"

	"github.com/ifc-cambodge/sreyka/internal/platform/errors"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/user"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New(errors.CodeNotFound, "record not found")
	// ErrAlreadyExists indicates a uniqueness conflict, such as a taken email.
	ErrAlreadyExists = errors.New(errors.CodeAlreadyExists, "record already exists")
)

// UserStore reads auth user records.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (user.User, error)
	// GetUserByEmail looks up a user by normalized email.
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

// WebSession is a durable authenticated browser session.
type WebSession struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the session is unrevoked and unexpired at now.
func (s WebSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}

// WebSessionStore persists web sessions.
type WebSessionStore interface {
	PutWebSession(ctx context.Context, session WebSession) error
	GetWebSession(ctx context.Context, id string) (WebSession, error)
	RevokeWebSession(ctx context.Context, id string, revokedAt time.Time) error
}

// AccountStore creates a user together with its first web session.
type AccountStore interface {
	// CreateAccount persists both records in one transaction. A taken email
	// returns ErrAlreadyExists and nothing is written.
	CreateAccount(ctx context.Context, u user.User, session WebSession) error
}

// Store is the full persistence surface used by the auth services.
type Store interface {
	UserStore
	WebSessionStore
	AccountStore
}
