// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"
	"strings"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
)

// Viewer is the identity behind a request. The zero value is anonymous.
type Viewer struct {
	SessionID string
	UserID    string
	Email     string
}

// SignedIn reports whether the viewer is authenticated.
func (v Viewer) SignedIn() bool {
	return strings.TrimSpace(v.UserID) != ""
}

// ResolveViewer resolves the viewer for a request.
type ResolveViewer func(*http.Request) Viewer

// Sessions binds auth web sessions to browser cookies.
type Sessions interface {
	// Establish writes the signed cookie for session.
	Establish(w http.ResponseWriter, r *http.Request, session storage.WebSession) error
	// Forget clears the cookie and returns the session id it carried, if any.
	Forget(w http.ResponseWriter, r *http.Request) string
	// Refresh drops any cached identity for the request so the next
	// resolution reads the store again.
	Refresh(r *http.Request)
}

// Mount describes a module route mount. Handler serves every pattern.
type Mount struct {
	Patterns []string
	Handler  http.Handler
}

// Module is one feature area mounted on the web server.
type Module interface {
	ID() string
	Mount() (Mount, error)
}
