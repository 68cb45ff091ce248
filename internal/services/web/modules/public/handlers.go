package public

import (
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
	apperrors "github.com/ifc-cambodge/sreyka/internal/services/web/platform/errors"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/flash"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/httpx"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/pagerender"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/publichandler"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/requestmeta"
	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
	webtemplates "github.com/ifc-cambodge/sreyka/internal/services/web/templates"
)

const maxFormBytes = 16 << 10

type handlers struct {
	publichandler.Base
	auth               Authenticator
	sessions           module.Sessions
	policy             requestmeta.SchemePolicy
	invalidCredentials func(error) bool
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	viewer := h.ResolveRequestViewer(r)
	h.WritePage(w, r, pagerender.Page{
		TitleKey: "home.title",
		Body: func(loc webtemplates.Localizer) templ.Component {
			return webtemplates.Home(webtemplates.HomeView{Email: viewer.Email, Loc: loc})
		},
	})
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	next := routepath.LocalRedirect(r.URL.Query().Get(routepath.NextParam))
	if h.IsViewerSignedIn(r) {
		httpx.WriteRedirect(w, r, next)
		return
	}
	h.writeLogin(w, r, http.StatusOK, webtemplates.LoginView{Next: next})
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "invalid form body"))
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	next := routepath.LocalRedirect(r.PostForm.Get(routepath.NextParam))

	session, err := h.auth.SignIn(httpx.RequestContext(r), email, r.PostForm.Get("password"))
	if err != nil {
		if h.invalidCredentials(err) {
			h.writeLogin(w, r, http.StatusUnauthorized, webtemplates.LoginView{
				Email:    email,
				Next:     next,
				ErrorKey: "login.invalid_credentials",
			})
			return
		}
		log.Printf("public: sign in: %v", err)
		h.WriteError(w, r, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "sign in failed"))
		return
	}
	if err := h.sessions.Establish(w, r, session); err != nil {
		log.Printf("public: establish session cookie: %v", err)
		h.WriteError(w, r, err)
		return
	}
	h.sessions.Refresh(r)
	httpx.WriteRedirect(w, r, next)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessions.Forget(w, r)
	if sessionID != "" {
		if err := h.auth.Revoke(httpx.RequestContext(r), sessionID); err != nil {
			log.Printf("public: revoke session: %v", err)
		}
		h.sessions.Refresh(r)
		flash.WriteWithPolicy(w, r, h.policy, flash.NoticeSuccess("login.signed_out"))
	}
	httpx.WriteRedirect(w, r, routepath.Root)
}

func (h handlers) writeLogin(w http.ResponseWriter, r *http.Request, statusCode int, view webtemplates.LoginView) {
	h.WritePage(w, r, pagerender.Page{
		TitleKey:   "login.title",
		StatusCode: statusCode,
		Body: func(loc webtemplates.Localizer) templ.Component {
			view.Loc = loc
			return webtemplates.LoginForm(view)
		},
	})
}
