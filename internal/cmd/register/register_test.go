package register

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/sessioncookie"
	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
)

// fakeService answers like the web service for a store holding taken@ifc.org.
func fakeService(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+routepath.APIRegister, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("email") {
		case "taken@ifc.org":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"status":"user_exists"}`))
		default:
			http.SetCookie(w, &http.Cookie{Name: sessioncookie.Name, Value: "token", Path: "/"})
			_, _ = w.Write([]byte(`{"status":"success"}`))
		}
	})
	mux.HandleFunc("GET "+routepath.APISession, func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie(sessioncookie.Name); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"session_id":"ws-1","user_id":"user-1","email":"new@ifc.org"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRunSuccessPrintsNoticeAndIdentity(t *testing.T) {
	t.Parallel()

	server := fakeService(t)
	var out bytes.Buffer
	err := Run(context.Background(), Config{BaseURL: server.URL, Email: "new@ifc.org", Password: "secret123"}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "[success] Account created successfully!\nsigned in as new@ifc.org\n"
	if got := out.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunUserExists(t *testing.T) {
	t.Parallel()

	server := fakeService(t)
	var out bytes.Buffer
	err := Run(context.Background(), Config{BaseURL: server.URL, Email: "taken@ifc.org", Password: "secret123"}, &out)
	if err == nil || !strings.Contains(err.Error(), "user_exists") {
		t.Fatalf("Run() error = %v, want user_exists", err)
	}
	if got := out.String(); got != "[error] Account already exists!\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestRunUnreachableService(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	var out bytes.Buffer
	err := Run(context.Background(), Config{BaseURL: baseURL, Email: "new@ifc.org", Password: "secret123"}, &out)
	if err == nil || !strings.Contains(err.Error(), "failed") {
		t.Fatalf("Run() error = %v, want failed", err)
	}
	if got := out.String(); got != "[error] Failed to create account!\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	lookup := func(key string) (string, bool) {
		if key == "SREYKA_REGISTER_PASSWORD" {
			return "from-env", true
		}
		return "", false
	}
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-email", "new@ifc.org"}, lookup)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" || cfg.Email != "new@ifc.org" || cfg.Password != "from-env" {
		t.Fatalf("cfg = %+v", cfg)
	}

	fs = flag.NewFlagSet("register", flag.ContinueOnError)
	if _, err := ParseConfig(fs, []string{"-base-url", " "}, lookup); err == nil {
		t.Fatal("expected base url error")
	}
}
