package register

import (
	"errors"
	"net/http"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/registration"
	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/publichandler"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/requestmeta"
	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
)

// Registrar binds a session sink into a registration action.
type Registrar interface {
	Action(sink registration.SessionSink) registration.Action
}

// Dependencies are the collaborators of the registration page.
type Dependencies struct {
	Registrar     Registrar
	Sessions      module.Sessions
	ResolveViewer module.ResolveViewer
	Policy        requestmeta.SchemePolicy
}

// Module provides the registration page.
type Module struct {
	deps Dependencies
}

// New returns a registration module.
func New(deps Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "register" }

// Mount wires registration route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.deps.Registrar == nil {
		return module.Mount{}, errors.New("register: registrar is required")
	}
	if m.deps.Sessions == nil {
		return module.Mount{}, errors.New("register: sessions are required")
	}
	h := handlers{
		Base:      publichandler.NewBase(publichandler.WithResolveViewer(m.deps.ResolveViewer)),
		registrar: m.deps.Registrar,
		sessions:  m.deps.Sessions,
		policy:    m.deps.Policy,
	}
	mux := http.NewServeMux()
	mux.HandleFunc(http.MethodGet+" "+routepath.Register, h.handlePage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Register, h.handleSubmit)
	return module.Mount{Patterns: []string{routepath.Register}, Handler: mux}, nil
}
