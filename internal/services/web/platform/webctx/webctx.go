// Package webctx provides shared web request context helpers.
package webctx

import (
	"context"
	"net/http"
	"sync"

	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
)

type viewerState struct {
	mu       sync.Mutex
	resolved bool
	viewer   module.Viewer
}

type viewerStateKey struct{}

// WithViewerState returns ctx carrying an empty per-request viewer memo.
func WithViewerState(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, viewerStateKey{}, &viewerState{})
}

// Middleware attaches a viewer memo to every request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithViewerState(r.Context())))
	})
}

func stateFromRequest(r *http.Request) *viewerState {
	if r == nil {
		return nil
	}
	state, _ := r.Context().Value(viewerStateKey{}).(*viewerState)
	return state
}

// ResolveViewer returns the memoized viewer for r, calling resolve at most
// once per request. Without a memo it calls resolve every time.
func ResolveViewer(r *http.Request, resolve module.ResolveViewer) module.Viewer {
	if resolve == nil {
		return module.Viewer{}
	}
	state := stateFromRequest(r)
	if state == nil {
		return resolve(r)
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	if !state.resolved {
		state.viewer = resolve(r)
		state.resolved = true
	}
	return state.viewer
}

// ForgetViewer drops the memoized viewer so the next ResolveViewer call
// resolves again.
func ForgetViewer(r *http.Request) {
	state := stateFromRequest(r)
	if state == nil {
		return
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	state.resolved = false
	state.viewer = module.Viewer{}
}
