package webctx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
)

func countingResolver(calls *int) module.ResolveViewer {
	return func(*http.Request) module.Viewer {
		*calls++
		return module.Viewer{UserID: "user-1", Email: "new@ifc.org"}
	}
}

func TestResolveViewerMemoizesPerRequest(t *testing.T) {
	t.Parallel()

	var calls int
	var seen []module.Viewer
	handler := Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		resolve := countingResolver(&calls)
		seen = append(seen, ResolveViewer(r, resolve), ResolveViewer(r, resolve))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if calls != 1 {
		t.Fatalf("resolver calls = %d, want 1", calls)
	}
	if len(seen) != 2 || seen[0] != seen[1] || !seen[0].SignedIn() {
		t.Fatalf("viewers = %+v", seen)
	}
}

func TestForgetViewerResolvesAgain(t *testing.T) {
	t.Parallel()

	var calls int
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithViewerState(req.Context()))
	resolve := countingResolver(&calls)

	ResolveViewer(req, resolve)
	ForgetViewer(req)
	ResolveViewer(req, resolve)
	if calls != 2 {
		t.Fatalf("resolver calls = %d, want 2", calls)
	}
}

func TestResolveViewerWithoutMemo(t *testing.T) {
	t.Parallel()

	var calls int
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resolve := countingResolver(&calls)
	ResolveViewer(req, resolve)
	ResolveViewer(req, resolve)
	ForgetViewer(req)
	if calls != 2 {
		t.Fatalf("resolver calls = %d, want 2", calls)
	}
	if got := ResolveViewer(req, nil); got.SignedIn() {
		t.Fatalf("expected anonymous viewer, got %+v", got)
	}
}
