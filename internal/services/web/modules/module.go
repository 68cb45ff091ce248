// Package modules defines web module registry helpers.
package modules

import (
	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
	"github.com/ifc-cambodge/sreyka/internal/services/web/modules/public"
	"github.com/ifc-cambodge/sreyka/internal/services/web/modules/register"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/requestmeta"
)

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the collaborators shared by the web modules. Each field
// is the narrow interface defined by the consuming module.
type Dependencies struct {
	Registrar          register.Registrar
	Auth               public.Authenticator
	InvalidCredentials func(error) bool
	Sessions           module.Sessions
	ResolveViewer      module.ResolveViewer
	Policy             requestmeta.SchemePolicy
}
