// Package publichandler provides a shared base for web module handlers.
// It centralizes viewer resolution, page rendering and error handling that
// would otherwise be duplicated across modules.
package publichandler

import (
	"net/http"

	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
	apperrors "github.com/ifc-cambodge/sreyka/internal/services/web/platform/errors"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/pagerender"
)

// Base provides shared page rendering for modules. Embed it in handler
// structs to get WritePage, WriteNotFound and WriteError.
type Base struct {
	resolveViewer module.ResolveViewer
}

// Option configures a Base.
type Option func(*Base)

// WithResolveViewer attaches a viewer resolver for layout rendering.
func WithResolveViewer(rv module.ResolveViewer) Option {
	return func(b *Base) { b.resolveViewer = rv }
}

// NewBase builds a handler base with the given options.
func NewBase(opts ...Option) Base {
	var b Base
	for _, o := range opts {
		o(&b)
	}
	return b
}

// ResolveRequestViewer resolves viewer state for the request.
// Returns an anonymous Viewer when no resolver is configured.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	if b.resolveViewer == nil || r == nil {
		return module.Viewer{}
	}
	return b.resolveViewer(r)
}

// IsViewerSignedIn reports whether the current request is authenticated.
func (b Base) IsViewerSignedIn(r *http.Request) bool {
	return b.ResolveRequestViewer(r).SignedIn()
}

// WritePage renders a full page in the shared layout.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, page pagerender.Page) {
	viewer := b.ResolveRequestViewer(r)
	if err := pagerender.WritePage(w, r, viewer, page); err != nil {
		pagerender.WriteError(w, r, viewer, err)
	}
}

// WriteNotFound renders a localized 404 page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	b.WriteError(w, r, apperrors.E(apperrors.KindNotFound, "not found"))
}

// WriteError renders a user-safe error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	pagerender.WriteError(w, r, b.ResolveRequestViewer(r), err)
}
