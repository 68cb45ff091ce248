package modules

import (
	"github.com/ifc-cambodge/sreyka/internal/services/web/modules/api"
	"github.com/ifc-cambodge/sreyka/internal/services/web/modules/public"
	"github.com/ifc-cambodge/sreyka/internal/services/web/modules/register"
)

// DefaultModules returns the modules served by the web server.
func DefaultModules(deps Dependencies) []Module {
	return []Module{
		public.New(public.Dependencies{
			Auth:               deps.Auth,
			Sessions:           deps.Sessions,
			ResolveViewer:      deps.ResolveViewer,
			Policy:             deps.Policy,
			InvalidCredentials: deps.InvalidCredentials,
		}),
		register.New(register.Dependencies{
			Registrar:     deps.Registrar,
			Sessions:      deps.Sessions,
			ResolveViewer: deps.ResolveViewer,
			Policy:        deps.Policy,
		}),
		api.New(api.Dependencies{
			Registrar:     deps.Registrar,
			Sessions:      deps.Sessions,
			ResolveViewer: deps.ResolveViewer,
		}),
	}
}
