package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/session"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/requestmeta"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/sessioncookie"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/webctx"
)

// PrincipalSource resolves a session id into its identity.
type PrincipalSource interface {
	Resolve(ctx context.Context, sessionID string) (session.Principal, error)
}

// sessionManager binds web sessions to signed cookies and caches resolved
// principals until they expire or are invalidated.
type sessionManager struct {
	codec  *sessioncookie.Codec
	source PrincipalSource
	policy requestmeta.SchemePolicy
	clock  func() time.Time

	mu         sync.RWMutex
	principals map[string]session.Principal
}

func newSessionManager(codec *sessioncookie.Codec, source PrincipalSource, policy requestmeta.SchemePolicy) *sessionManager {
	return &sessionManager{
		codec:      codec,
		source:     source,
		policy:     policy,
		clock:      time.Now,
		principals: make(map[string]session.Principal),
	}
}

// Establish writes the signed cookie for ws.
func (m *sessionManager) Establish(w http.ResponseWriter, r *http.Request, ws storage.WebSession) error {
	token, err := m.codec.Encode(ws.ID, ws.ExpiresAt)
	if err != nil {
		return err
	}
	m.invalidate(ws.ID)
	sessioncookie.WriteWithPolicy(w, r, token, ws.ExpiresAt, m.policy)
	return nil
}

// Forget clears the cookie and returns the session id it carried.
func (m *sessionManager) Forget(w http.ResponseWriter, r *http.Request) string {
	sessionID, _ := m.sessionID(r)
	sessioncookie.ClearWithPolicy(w, r, m.policy)
	if sessionID != "" {
		m.invalidate(sessionID)
	}
	webctx.ForgetViewer(r)
	return sessionID
}

// Refresh drops the cached principal of the request's session.
func (m *sessionManager) Refresh(r *http.Request) {
	if sessionID, ok := m.sessionID(r); ok {
		m.invalidate(sessionID)
	}
	webctx.ForgetViewer(r)
}

// ResolveViewer returns the viewer behind the request's session cookie.
func (m *sessionManager) ResolveViewer(r *http.Request) module.Viewer {
	return webctx.ResolveViewer(r, m.resolveViewerUncached)
}

func (m *sessionManager) resolveViewerUncached(r *http.Request) module.Viewer {
	sessionID, ok := m.sessionID(r)
	if !ok {
		return module.Viewer{}
	}
	principal, ok := m.cached(sessionID)
	if !ok {
		resolved, err := m.source.Resolve(r.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, session.ErrInvalidSession) && !errors.Is(err, session.ErrExpiredSession) {
				log.Printf("resolve web session: %v", err)
			}
			m.invalidate(sessionID)
			return module.Viewer{}
		}
		principal = resolved
		m.store(principal)
	}
	return module.Viewer{
		SessionID: principal.SessionID,
		UserID:    principal.UserID,
		Email:     principal.Email,
	}
}

func (m *sessionManager) sessionID(r *http.Request) (string, bool) {
	token, ok := sessioncookie.Read(r)
	if !ok {
		return "", false
	}
	sessionID, err := m.codec.Decode(token)
	if err != nil {
		return "", false
	}
	return sessionID, true
}

func (m *sessionManager) cached(sessionID string) (session.Principal, bool) {
	m.mu.RLock()
	principal, ok := m.principals[sessionID]
	m.mu.RUnlock()
	if !ok {
		return session.Principal{}, false
	}
	if !principal.ExpiresAt.After(m.clock()) {
		m.invalidate(sessionID)
		return session.Principal{}, false
	}
	return principal, true
}

func (m *sessionManager) store(principal session.Principal) {
	m.mu.Lock()
	m.principals[principal.SessionID] = principal
	m.mu.Unlock()
}

func (m *sessionManager) invalidate(sessionID string) {
	m.mu.Lock()
	delete(m.principals, sessionID)
	m.mu.Unlock()
}
