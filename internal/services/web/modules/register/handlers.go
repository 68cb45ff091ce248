package register

import (
	"log"
	"net/http"
	"sync"

	"github.com/a-h/templ"

	"github.com/ifc-cambodge/sreyka/internal/services/auth/registration"
	"github.com/ifc-cambodge/sreyka/internal/services/auth/storage"
	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
	apperrors "github.com/ifc-cambodge/sreyka/internal/services/web/platform/errors"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/flash"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/httpx"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/pagerender"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/publichandler"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/requestmeta"
	webtemplates "github.com/ifc-cambodge/sreyka/internal/services/web/templates"
)

// maxFormBytes bounds the registration form body.
const maxFormBytes = 16 << 10

type handlers struct {
	publichandler.Base
	registrar Registrar
	sessions  module.Sessions
	policy    requestmeta.SchemePolicy
}

func (h handlers) handlePage(w http.ResponseWriter, r *http.Request) {
	viewer := h.ResolveRequestViewer(r)
	h.writeForm(w, r, http.StatusOK, nil, webtemplates.RegisterView{
		Email:      viewer.Email,
		Successful: viewer.SignedIn(),
	})
}

func (h handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form body"))
		return
	}
	form := registration.FormFromValues(r.PostForm)

	sink := &sessionCapture{}
	controller := NewController(h.registrar.Action(sink))
	effects := &requestEffects{}
	cancel := Attach(controller, Collaborators{Notifier: effects, Session: effects, Route: effects})
	defer cancel()

	controller.Submit(httpx.RequestContext(r), form)
	controller.Wait()

	if session, ok := sink.established(); ok {
		if err := h.sessions.Establish(w, r, session); err != nil {
			log.Printf("register: establish session cookie: %v", err)
		}
	}
	if effects.sessionRefreshed() {
		h.sessions.Refresh(r)
	}
	if effects.routeRefreshed() {
		flash.WriteWithPolicy(w, r, h.policy, effects.Notices()...)
		httpx.WriteRedirect(w, r, r.URL.Path)
		return
	}

	h.writeForm(w, r, HTTPStatus(controller.State().Status), effects.Notices(), webtemplates.RegisterView{
		Email:      controller.Email(),
		Successful: controller.Successful(),
	})
}

func (h handlers) writeForm(w http.ResponseWriter, r *http.Request, statusCode int, notices []flash.Notice, view webtemplates.RegisterView) {
	h.WritePage(w, r, pagerender.Page{
		TitleKey:   "register.title",
		StatusCode: statusCode,
		Notices:    notices,
		Body: func(loc webtemplates.Localizer) templ.Component {
			view.Loc = loc
			return webtemplates.RegisterForm(view)
		},
	})
}

// sessionCapture keeps the session handed over by a successful registration.
type sessionCapture struct {
	mu      sync.Mutex
	session *storage.WebSession
}

func (c *sessionCapture) EstablishSession(session storage.WebSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = &session
}

func (c *sessionCapture) established() (storage.WebSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return storage.WebSession{}, false
	}
	return *c.session, true
}

// requestEffects records reconciler effects for one request. The handler
// applies them once the submission settles, because the response can only
// be written from the handler goroutine.
type requestEffects struct {
	flash.Queue

	mu       sync.Mutex
	session  bool
	redirect bool
}

func (e *requestEffects) RefreshSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = true
}

func (e *requestEffects) RefreshRoute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.redirect = true
}

func (e *requestEffects) sessionRefreshed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

func (e *requestEffects) routeRefreshed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redirect
}
