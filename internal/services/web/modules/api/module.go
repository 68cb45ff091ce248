// Package api exposes the registration boundary and the session query as
// JSON endpoints for non-browser clients.
package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/registration"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
	"github.com/ifc-cambodge/sreyka/internal/services/web/modules/register"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/httpx"
	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
)

const maxFormBytes = 16 << 10

// Dependencies are the collaborators of the JSON endpoints.
type Dependencies struct {
	Registrar     register.Registrar
	Sessions      module.Sessions
	ResolveViewer module.ResolveViewer
}

// SessionView is the body of a session query.
type SessionView struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
}

// Module provides the JSON API routes.
type Module struct {
	deps Dependencies
}

// New returns an API module.
func New(deps Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "api" }

// Mount wires the JSON routes under the API prefix.
func (m Module) Mount() (module.Mount, error) {
	if m.deps.Registrar == nil {
		return module.Mount{}, errors.New("api: registrar is required")
	}
	if m.deps.Sessions == nil {
		return module.Mount{}, errors.New("api: sessions are required")
	}
	if m.deps.ResolveViewer == nil {
		return module.Mount{}, errors.New("api: viewer resolver is required")
	}
	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodPost+" "+routepath.APIRegister, m.handleRegister)
	mux.HandleFunc(http.MethodGet+" "+routepath.APISession, m.handleSession)
	mux.HandleFunc(routepath.APIPrefix, func(w http.ResponseWriter, _ *http.Request) {
		_ = httpx.WriteJSONError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	return module.Mount{Patterns: []string{routepath.APIPrefix}, Handler: mux}, nil
}

// handleRegister runs the registration action and answers with its status.
// The HTTP status follows the outcome so plain clients can branch on it.
func (m Module) handleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	var established *storage.WebSession
	sink := registration.SessionSinkFunc(func(session storage.WebSession) {
		established = &session
	})
	status := m.deps.Registrar.Action(sink)(httpx.RequestContext(r), registration.FormFromValues(r.PostForm))
	if !status.Valid() {
		status = registration.StatusFailed
	}
	if status == registration.StatusSuccess && established != nil {
		if err := m.deps.Sessions.Establish(w, r, *established); err != nil {
			log.Printf("api: establish session cookie: %v", err)
		}
		m.deps.Sessions.Refresh(r)
	}
	if err := httpx.WriteJSON(w, register.HTTPStatus(status), registration.Result{Status: status}); err != nil {
		log.Printf("api: write registration result: %v", err)
	}
}

func (m Module) handleSession(w http.ResponseWriter, r *http.Request) {
	viewer := m.deps.ResolveViewer(r)
	if !viewer.SignedIn() {
		_ = httpx.WriteJSONError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, SessionView{
		SessionID: viewer.SessionID,
		UserID:    viewer.UserID,
		Email:     viewer.Email,
	})
}
