package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/user"
)

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStoreDBNilSafe(t *testing.T) {
	var store *Store
	if store.DB() != nil {
		t.Fatal("expected nil DB for nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := first.CreateAccount(context.Background(), testUser("user-1", "a@ifc.org"), testSession("sess-1", "user-1")); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer second.Close()
	if _, err := second.GetUserByEmail(context.Background(), "a@ifc.org"); err != nil {
		t.Fatalf("expected user to survive reopen: %v", err)
	}
}

func TestCreateAccountRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	input := testUser("user-1", "alice@ifc.org")
	session := testSession("sess-1", "user-1")
	if err := store.CreateAccount(ctx, input, session); err != nil {
		t.Fatalf("create account: %v", err)
	}

	got, err := store.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != input.Email || string(got.PasswordHash) != string(input.PasswordHash) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if !got.CreatedAt.Equal(input.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, input.CreatedAt)
	}

	byEmail, err := store.GetUserByEmail(ctx, "  ALICE@ifc.org ")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Fatalf("expected user-1, got %q", byEmail.ID)
	}

	gotSession, err := store.GetWebSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get web session: %v", err)
	}
	if gotSession.UserID != "user-1" || !gotSession.ExpiresAt.Equal(session.ExpiresAt) {
		t.Fatalf("unexpected session: %+v", gotSession)
	}
}

func TestCreateAccountDuplicateEmailLeavesNoPartialState(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if err := store.CreateAccount(ctx, testUser("user-1", "taken@ifc.org"), testSession("sess-1", "user-1")); err != nil {
		t.Fatalf("create account: %v", err)
	}

	err := store.CreateAccount(ctx, testUser("user-2", "taken@ifc.org"), testSession("sess-2", "user-2"))
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
	if _, err := store.GetUser(ctx, "user-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected no second user, got %v", err)
	}
	if _, err := store.GetWebSession(ctx, "sess-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected no second session, got %v", err)
	}
}

func TestCreateAccountRollsBackUserWhenSessionFails(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if err := store.CreateAccount(ctx, testUser("user-1", "a@ifc.org"), testSession("sess-1", "user-1")); err != nil {
		t.Fatalf("create account: %v", err)
	}
	// Session id collides with an existing session; the user insert must roll back.
	err := store.CreateAccount(ctx, testUser("user-2", "b@ifc.org"), testSession("sess-1", "user-2"))
	if err == nil {
		t.Fatal("expected session conflict")
	}
	if _, err := store.GetUserByEmail(ctx, "b@ifc.org"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected rolled back user, got %v", err)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    user.User
		session storage.WebSession
	}{
		{name: "missing id", user: testUser(" ", "a@ifc.org"), session: testSession("s", " ")},
		{name: "missing email", user: testUser("u", ""), session: testSession("s", "u")},
		{name: "missing hash", user: user.User{ID: "u", Email: "a@ifc.org"}, session: testSession("s", "u")},
		{name: "session user mismatch", user: testUser("u", "a@ifc.org"), session: testSession("s", "other")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.CreateAccount(ctx, tc.user, tc.session); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGetUserNotFound(t *testing.T) {
	store := openTempStore(t)

	_, err := store.GetUser(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = store.GetUserByEmail(context.Background(), "missing@ifc.org")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found by email, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.GetUser(ctx, "user-1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestWebSessionLifecycle(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if err := store.CreateAccount(ctx, testUser("user-1", "a@ifc.org"), testSession("sess-1", "user-1")); err != nil {
		t.Fatalf("create account: %v", err)
	}
	second := testSession("sess-2", "user-1")
	if err := store.PutWebSession(ctx, second); err != nil {
		t.Fatalf("put web session: %v", err)
	}

	revokedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.RevokeWebSession(ctx, "sess-2", revokedAt); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := store.RevokeWebSession(ctx, "sess-2", revokedAt.Add(time.Hour)); err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	got, err := store.GetWebSession(ctx, "sess-2")
	if err != nil {
		t.Fatalf("get web session: %v", err)
	}
	if got.RevokedAt == nil || !got.RevokedAt.Equal(revokedAt) {
		t.Fatalf("expected first revocation time, got %v", got.RevokedAt)
	}

	if err := store.RevokeWebSession(ctx, "missing", revokedAt); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPutWebSessionRequiresExistingUser(t *testing.T) {
	store := openTempStore(t)
	if err := store.PutWebSession(context.Background(), testSession("sess-1", "ghost")); err == nil {
		t.Fatal("expected foreign key error")
	}
}

func testUser(id, email string) user.User {
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return user.User{
		ID:           id,
		Email:        email,
		PasswordHash: []byte("$2a$04$hash-" + id),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func testSession(id, userID string) storage.WebSession {
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	return storage.WebSession{
		ID:        id,
		UserID:    userID,
		CreatedAt: created,
		ExpiresAt: created.Add(24 * time.Hour),
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
