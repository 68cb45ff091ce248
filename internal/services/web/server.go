package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ifc-cambodge/sreyka/internal/platform/timeouts"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/registration"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/session"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage/sqlite"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/user"
	"github.com/ifc-cambodge/sreyka/internal/services/web/app"
	"github.com/ifc-cambodge/sreyka/internal/services/web/modules"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/httpx"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/requestmeta"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/sessioncookie"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/webctx"
	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// DBPath is the SQLite file holding users and web sessions.
	DBPath     string
	SessionTTL time.Duration
	Codec      *sessioncookie.Codec
	Policy     requestmeta.SchemePolicy
	// PasswordHasher overrides the default bcrypt cost.
	PasswordHasher user.Hasher
}

// HandlerConfig carries the collaborators of the root handler.
type HandlerConfig struct {
	Store          storage.Store
	Codec          *sessioncookie.Codec
	Policy         requestmeta.SchemePolicy
	SessionTTL     time.Duration
	PasswordHasher user.Hasher
	// Ping reports storage health for the health route. Nil means healthy.
	Ping func(context.Context) error
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *sqlite.Store
}

// NewHandler composes the web modules over the auth services.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Codec == nil {
		return nil, errors.New("session codec is required")
	}
	sessions := session.NewService(cfg.Store,
		session.WithTTL(cfg.SessionTTL),
		session.WithHasher(cfg.PasswordHasher),
	)
	registrar := registration.NewService(cfg.Store, sessions, registration.WithHasher(cfg.PasswordHasher))
	manager := newSessionManager(cfg.Codec, sessions, cfg.Policy)

	root, err := app.Compose(app.ComposeInput{
		Modules: modules.DefaultModules(modules.Dependencies{
			Registrar: registrar,
			Auth:      sessions,
			InvalidCredentials: func(err error) bool {
				return errors.Is(err, session.ErrInvalidCredentials)
			},
			Sessions:      manager,
			ResolveViewer: manager.ResolveViewer,
			Policy:        cfg.Policy,
		}),
		Routes: map[string]http.Handler{
			routepath.Health: httpx.Chain(healthHandler(cfg.Ping), httpx.RequireMethod(http.MethodGet, http.MethodHead)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("compose modules: %w", err)
	}
	return httpx.Chain(root,
		httpx.RequestID(),
		httpx.LogRequests(),
		httpx.RecoverPanic(),
		webctx.Middleware,
		httpx.SameOrigin(cfg.Policy),
	), nil
}

func healthHandler(ping func(context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(httpx.RequestContext(r)); err != nil {
				log.Printf("health: storage ping: %v", err)
				_ = httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// NewServer opens storage and builds a configured web server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if strings.TrimSpace(config.DBPath) == "" {
		return nil, errors.New("database path is required")
	}
	store, err := sqlite.Open(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open auth store: %w", err)
	}
	handler, err := NewHandler(HandlerConfig{
		Store:          store,
		Codec:          config.Codec,
		Policy:         config.Policy,
		SessionTTL:     config.SessionTTL,
		PasswordHasher: config.PasswordHasher,
		Ping:           store.DB().PingContext,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	if s == nil || s.httpServer == nil {
		return http.NotFoundHandler()
	}
	return s.httpServer.Handler
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the auth store.
func (s *Server) Close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close auth store: %v", err)
	}
}
