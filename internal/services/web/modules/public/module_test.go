package public

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/flash"
	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
)

var errBadCredentials = errors.New("bad credentials")

type fakeAuth struct {
	mu      sync.Mutex
	revoked []string
	err     error
}

func (f *fakeAuth) SignIn(_ context.Context, email string, password string) (storage.WebSession, error) {
	if f.err != nil {
		return storage.WebSession{}, f.err
	}
	if email != "new@ifc.org" || password != "secret123" {
		return storage.WebSession{}, errBadCredentials
	}
	return storage.WebSession{ID: "ws-1", UserID: "user-1"}, nil
}

func (f *fakeAuth) Revoke(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, sessionID)
	return nil
}

type fakeSessions struct {
	established []storage.WebSession
	forgotten   string
	refreshed   int
}

func (f *fakeSessions) Establish(w http.ResponseWriter, _ *http.Request, session storage.WebSession) error {
	f.established = append(f.established, session)
	http.SetCookie(w, &http.Cookie{Name: "sreyka_session", Value: "token-" + session.ID, Path: "/"})
	return nil
}

func (f *fakeSessions) Forget(http.ResponseWriter, *http.Request) string { return f.forgotten }

func (f *fakeSessions) Refresh(*http.Request) { f.refreshed++ }

func mountPublic(t *testing.T, auth *fakeAuth, sessions *fakeSessions, viewer module.Viewer) http.Handler {
	t.Helper()
	mount, err := New(Dependencies{
		Auth:               auth,
		Sessions:           sessions,
		ResolveViewer:      func(*http.Request) module.Viewer { return viewer },
		InvalidCredentials: func(err error) bool { return errors.Is(err, errBadCredentials) },
	}).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return mount.Handler
}

func postForm(handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestModuleID(t *testing.T) {
	t.Parallel()

	if got := New(Dependencies{}).ID(); got != "public" {
		t.Fatalf("ID() = %q, want %q", got, "public")
	}
}

func TestMountRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(Dependencies{Sessions: &fakeSessions{}}).Mount(); err == nil {
		t.Fatal("expected error without authenticator")
	}
	if _, err := New(Dependencies{Auth: &fakeAuth{}}).Mount(); err == nil {
		t.Fatal("expected error without sessions")
	}
}

func TestHomeShowsViewer(t *testing.T) {
	t.Parallel()

	handler := mountPublic(t, &fakeAuth{}, &fakeSessions{}, module.Viewer{SessionID: "ws-1", UserID: "user-1", Email: "new@ifc.org"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, routepath.Root, nil)
	req.Header.Set("Accept-Language", "en")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Signed in as new@ifc.org") {
		t.Fatalf("expected viewer email in body: %s", rec.Body.String())
	}
}

func TestUnknownPathRendersNotFound(t *testing.T) {
	t.Parallel()

	handler := mountPublic(t, &fakeAuth{}, &fakeSessions{}, module.Viewer{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestLoginPageRedirectsSignedInViewer(t *testing.T) {
	t.Parallel()

	handler := mountPublic(t, &fakeAuth{}, &fakeSessions{}, module.Viewer{UserID: "user-1"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, routepath.LoginWithNext(routepath.Register), nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != routepath.Register {
		t.Fatalf("Location = %q", got)
	}
}

func TestLoginSuccessEstablishesSession(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	handler := mountPublic(t, &fakeAuth{}, sessions, module.Viewer{})
	rec := postForm(handler, routepath.Login, url.Values{
		"email":             {" new@ifc.org "},
		"password":          {"secret123"},
		routepath.NextParam: {"https://evil.example/"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != routepath.Root {
		t.Fatalf("Location = %q, want %q", got, routepath.Root)
	}
	if len(sessions.established) != 1 || sessions.refreshed != 1 {
		t.Fatalf("established = %d refreshed = %d", len(sessions.established), sessions.refreshed)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	handler := mountPublic(t, &fakeAuth{}, sessions, module.Viewer{})
	req := httptest.NewRequest(http.MethodPost, routepath.Login, strings.NewReader(url.Values{
		"email":    {"new@ifc.org"},
		"password": {"wrong"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept-Language", "en")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Invalid email or password.") || !strings.Contains(body, `value="new@ifc.org"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if len(sessions.established) != 0 {
		t.Fatal("no session expected")
	}
}

func TestLoginStoreFailure(t *testing.T) {
	t.Parallel()

	handler := mountPublic(t, &fakeAuth{err: errors.New("disk full")}, &fakeSessions{}, module.Viewer{})
	rec := postForm(handler, routepath.Login, url.Values{"email": {"new@ifc.org"}, "password": {"secret123"}})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{}
	sessions := &fakeSessions{forgotten: "ws-1"}
	rec := postForm(mountPublic(t, auth, sessions, module.Viewer{}), routepath.Logout, nil)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if len(auth.revoked) != 1 || auth.revoked[0] != "ws-1" {
		t.Fatalf("revoked = %v", auth.revoked)
	}
	if sessions.refreshed != 1 {
		t.Fatalf("refreshed = %d", sessions.refreshed)
	}
	var sawFlash bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == flash.CookieName {
			sawFlash = true
		}
	}
	if !sawFlash {
		t.Fatal("expected signed-out flash")
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{}
	rec := postForm(mountPublic(t, auth, &fakeSessions{}, module.Viewer{}), routepath.Logout, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(auth.revoked) != 0 {
		t.Fatalf("revoked = %v", auth.revoked)
	}
}
