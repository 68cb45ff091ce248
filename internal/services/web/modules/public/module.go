// Package public serves the landing page and the sign-in and sign-out routes.
package public

import (
	"context"
	"errors"
	"net/http"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/publichandler"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/requestmeta"
	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
)

// Authenticator signs users in and revokes their sessions.
type Authenticator interface {
	SignIn(ctx context.Context, email string, password string) (storage.WebSession, error)
	Revoke(ctx context.Context, sessionID string) error
}

// Dependencies are the collaborators of the public routes.
type Dependencies struct {
	Auth          Authenticator
	Sessions      module.Sessions
	ResolveViewer module.ResolveViewer
	Policy        requestmeta.SchemePolicy
	// InvalidCredentials reports whether a SignIn error means the email or
	// password was wrong.
	InvalidCredentials func(error) bool
}

// Module provides unauthenticated root and auth routes.
type Module struct {
	deps Dependencies
}

// New returns a public module.
func New(deps Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string { return "public" }

// Mount wires the root, login and logout routes. The root pattern also
// catches unknown paths and answers them with the not-found page.
func (m Module) Mount() (module.Mount, error) {
	if m.deps.Auth == nil {
		return module.Mount{}, errors.New("public: authenticator is required")
	}
	if m.deps.Sessions == nil {
		return module.Mount{}, errors.New("public: sessions are required")
	}
	invalid := m.deps.InvalidCredentials
	if invalid == nil {
		invalid = func(error) bool { return false }
	}
	h := handlers{
		Base:               publichandler.NewBase(publichandler.WithResolveViewer(m.deps.ResolveViewer)),
		auth:               m.deps.Auth,
		sessions:           m.deps.Sessions,
		policy:             m.deps.Policy,
		invalidCredentials: invalid,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleHome)
	mux.HandleFunc(http.MethodGet+" "+routepath.Login, h.handleLoginPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Login, h.handleLogin)
	mux.HandleFunc(http.MethodPost+" "+routepath.Logout, h.handleLogout)
	mux.HandleFunc("/", h.WriteNotFound)
	return module.Mount{
		Patterns: []string{routepath.Root, routepath.Login, routepath.Logout},
		Handler:  mux,
	}, nil
}
