package register

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/registration"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
)

// effectLog records collaborator calls in order.
type effectLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *effectLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *effectLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *effectLog) Notify(kind NoticeKind, message string) {
	l.add(fmt.Sprintf("notify %s %s", kind, message))
}

func (l *effectLog) RefreshSession() { l.add("session") }
func (l *effectLog) RefreshRoute()   { l.add("route") }
func (l *effectLog) MarkSuccessful() { l.add("mark") }

// collaborators leaves Success unset so Attach uses the controller.
func (l *effectLog) collaborators() Collaborators {
	return Collaborators{Notifier: l, Session: l, Route: l}
}

// directoryAction answers like the registration service would for a store
// that already holds taken@ifc.org.
func directoryAction() registration.Action {
	var mu sync.Mutex
	accounts := map[string]bool{"taken@ifc.org": true}
	return func(_ context.Context, form registration.Form) registration.Status {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case form.Email == "not-an-email" || form.Email == "" || len(form.Password) < 6:
			return registration.StatusInvalidData
		case accounts[form.Email]:
			return registration.StatusUserExists
		default:
			accounts[form.Email] = true
			return registration.StatusSuccess
		}
	}
}

type fakeRegistrar struct {
	action  registration.Action
	session storage.WebSession
}

func (f fakeRegistrar) Action(sink registration.SessionSink) registration.Action {
	return func(ctx context.Context, form registration.Form) registration.Status {
		status := f.action(ctx, form)
		if status == registration.StatusSuccess && sink != nil {
			sink.EstablishSession(f.session)
		}
		return status
	}
}

type fakeSessions struct {
	mu          sync.Mutex
	established []storage.WebSession
	refreshed   int
}

func (f *fakeSessions) Establish(w http.ResponseWriter, _ *http.Request, session storage.WebSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.established = append(f.established, session)
	http.SetCookie(w, &http.Cookie{Name: "sreyka_session", Value: "token-" + session.ID, Path: "/"})
	return nil
}

func (f *fakeSessions) Forget(http.ResponseWriter, *http.Request) string { return "" }

func (f *fakeSessions) Refresh(*http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed++
}
