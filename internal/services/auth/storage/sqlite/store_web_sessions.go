package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
)

type execContexter interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PutWebSession stores a web session for an existing user.
func (s *Store) PutWebSession(ctx context.Context, session storage.WebSession) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return putWebSession(ctx, s.sqlDB, session)
}

func putWebSession(ctx context.Context, exec execContexter, session storage.WebSession) error {
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("web session id is required")
	}
	if strings.TrimSpace(session.UserID) == "" {
		return fmt.Errorf("web session user id is required")
	}
	var revokedAt sql.NullInt64
	if session.RevokedAt != nil {
		revokedAt = sql.NullInt64{Int64: toMillis(*session.RevokedAt), Valid: true}
	}
	if _, err := exec.ExecContext(ctx, `
INSERT INTO web_sessions (id, user_id, created_at, expires_at, revoked_at)
VALUES (?, ?, ?, ?, ?);
`,
		session.ID,
		session.UserID,
		toMillis(session.CreatedAt),
		toMillis(session.ExpiresAt),
		revokedAt,
	); err != nil {
		return fmt.Errorf("put web session: %w", err)
	}
	return nil
}

// GetWebSession fetches a web session by ID, including revoked ones.
func (s *Store) GetWebSession(ctx context.Context, id string) (storage.WebSession, error) {
	if err := s.ready(ctx); err != nil {
		return storage.WebSession{}, err
	}
	if strings.TrimSpace(id) == "" {
		return storage.WebSession{}, fmt.Errorf("web session id is required")
	}

	var (
		session   storage.WebSession
		createdAt int64
		expiresAt int64
		revokedAt sql.NullInt64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, user_id, created_at, expires_at, revoked_at
FROM web_sessions
WHERE id = ?;
`, id).Scan(&session.ID, &session.UserID, &createdAt, &expiresAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.WebSession{}, storage.ErrNotFound
		}
		return storage.WebSession{}, fmt.Errorf("get web session: %w", err)
	}
	session.CreatedAt = fromMillis(createdAt)
	session.ExpiresAt = fromMillis(expiresAt)
	if revokedAt.Valid {
		value := fromMillis(revokedAt.Int64)
		session.RevokedAt = &value
	}
	return session, nil
}

// RevokeWebSession marks a session revoked. Revoking twice keeps the first
// revocation time.
func (s *Store) RevokeWebSession(ctx context.Context, id string, revokedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("web session id is required")
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE web_sessions
SET revoked_at = COALESCE(revoked_at, ?)
WHERE id = ?;
`, toMillis(revokedAt), id)
	if err != nil {
		return fmt.Errorf("revoke web session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke web session rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
