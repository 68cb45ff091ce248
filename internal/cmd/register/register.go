// Package register runs one registration against a Sreyka web service from
// the command line, using the same controller and reconciler as the browser
// flow.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	platformcmd "github.com/ifc-cambodge/sreyka/internal/platform/cmd"
	"github.com/ifc-cambodge/sreyka/internal/platform/config"
	"github.com/ifc-cambodge/sreyka/internal/platform/timeouts"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/registration"
	"github.com/ifc-cambodge/sreyka/internal/services/web/modules/api"
	"github.com/ifc-cambodge/sreyka/internal/services/web/modules/register"
	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
)

const (
	envBaseURL  = "SREYKA_REGISTER_BASE_URL"
	envPassword = "SREYKA_REGISTER_PASSWORD"
)

// Config holds the register command configuration.
type Config struct {
	BaseURL  string `env:"SREYKA_REGISTER_BASE_URL" envDefault:"http://localhost:8080"`
	Email    string
	Password string `env:"SREYKA_REGISTER_PASSWORD"`
}

// ParseConfig reads env defaults through lookup and then parses flags. The
// password is read from the environment unless given as a flag.
func ParseConfig(fs *flag.FlagSet, args []string, lookup config.EnvLookup) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg, lookup, envBaseURL, envPassword); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Web service base URL")
	fs.StringVar(&cfg.Email, "email", cfg.Email, "Account email")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "Account password")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return Config{}, errors.New("base url is required")
	}
	return cfg, nil
}

// Run submits one registration and reports notices to out. It returns an
// error unless the account was created.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("cookie jar: %w", err)
	}
	client := &http.Client{Jar: jar, Timeout: timeouts.RemoteAction}
	effects := &cliEffects{ctx: ctx, out: out, client: client, baseURL: strings.TrimRight(cfg.BaseURL, "/")}

	controller := register.NewController(register.RemoteAction(cfg.BaseURL, client))
	cancel := register.Attach(controller, register.Collaborators{
		Notifier: effects,
		Session:  effects,
		Route:    effects,
	})
	defer cancel()

	controller.Submit(ctx, registration.Form{Email: strings.TrimSpace(cfg.Email), Password: cfg.Password})
	controller.Wait()

	status := controller.State().Status
	if status != registration.StatusSuccess {
		return fmt.Errorf("registration ended with %s", status)
	}
	return nil
}

// cliEffects prints notices and re-reads the session after success.
type cliEffects struct {
	ctx     context.Context
	out     io.Writer
	client  *http.Client
	baseURL string

	mu sync.Mutex
}

func (e *cliEffects) printf(format string, args ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = fmt.Fprintf(e.out, format+"\n", args...)
}

func (e *cliEffects) Notify(kind register.NoticeKind, message string) {
	e.printf("[%s] %s", kind, message)
}

// RefreshSession checks that the success reply carried a session cookie.
func (e *cliEffects) RefreshSession() {
	target, err := url.Parse(e.baseURL + routepath.APISession)
	if err != nil {
		return
	}
	if len(e.client.Jar.Cookies(target)) == 0 {
		e.printf("no session cookie received")
	}
}

// RefreshRoute asks the service who is signed in with the stored cookie.
func (e *cliEffects) RefreshRoute() {
	view, err := e.fetchSession()
	if err != nil {
		e.printf("session check failed: %v", err)
		return
	}
	e.printf("signed in as %s", view.Email)
}

func (e *cliEffects) fetchSession() (api.SessionView, error) {
	req, err := http.NewRequestWithContext(e.ctx, http.MethodGet, e.baseURL+routepath.APISession, nil)
	if err != nil {
		return api.SessionView{}, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return api.SessionView{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return api.SessionView{}, fmt.Errorf("session query returned %d", resp.StatusCode)
	}
	var view api.SessionView
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&view); err != nil {
		return api.SessionView{}, fmt.Errorf("decode session: %w", err)
	}
	return view, nil
}
