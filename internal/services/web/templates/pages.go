package templates

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
)

// RegisterView is the registration form state.
type RegisterView struct {
	Email      string
	Successful bool
	Loc        Localizer
}

// RegisterForm renders the registration form. The submit button is
// disabled once registration has succeeded.
func RegisterForm(view RegisterView) templ.Component {
	submit := attrs(a("type", "submit"))
	if view.Successful {
		submit = append(submit, flag("disabled"))
	}
	return el("section", attrs(a("class", "register")),
		el("h1", nil, text(T(view.Loc, "register.heading"))),
		el("form", attrs(a("method", "post"), link("action", routepath.Register)),
			emailField(view.Loc, view.Email),
			passwordField(view.Loc, "new-password", true),
			el("small", nil, text(T(view.Loc, "register.password_hint"))),
			el("button", submit, text(T(view.Loc, "register.submit"))),
		),
		crossLink(T(view.Loc, "register.have_account"), routepath.Login, T(view.Loc, "register.login_link")),
	)
}

// LoginView is the sign-in form state.
type LoginView struct {
	Email    string
	Next     string
	ErrorKey string
	Loc      Localizer
}

// LoginForm renders the sign-in form.
func LoginForm(view LoginView) templ.Component {
	return el("section", attrs(a("class", "login")),
		el("h1", nil, text(T(view.Loc, "login.heading"))),
		when(view.ErrorKey != "",
			el("p", attrs(a("role", "alert"), a("class", "error")), text(T(view.Loc, view.ErrorKey))),
		),
		el("form", attrs(a("method", "post"), link("action", routepath.Login)),
			void("input", a("type", "hidden"), a("name", routepath.NextParam), a("value", view.Next)),
			emailField(view.Loc, view.Email),
			passwordField(view.Loc, "current-password", false),
			el("button", attrs(a("type", "submit")), text(T(view.Loc, "login.submit"))),
		),
		crossLink(T(view.Loc, "login.no_account"), routepath.Register, T(view.Loc, "nav.register")),
	)
}

// HomeView is the landing page state.
type HomeView struct {
	Email string
	Loc   Localizer
}

// Home renders the landing page.
func Home(view HomeView) templ.Component {
	status := T(view.Loc, "home.anonymous")
	if view.Email != "" {
		status = T(view.Loc, "home.signed_in_as", view.Email)
	}
	return el("section", attrs(a("class", "home")),
		el("h1", nil, text(T(view.Loc, "home.heading"))),
		el("p", nil, text(status)),
	)
}

// ErrorState renders the body of an error page for statusCode.
func ErrorState(statusCode int, loc Localizer) templ.Component {
	key := "error.internal"
	if statusCode == http.StatusNotFound {
		key = "error.not_found"
	}
	return el("section", attrs(a("class", "error")),
		el("h1", nil, text(T(loc, "error.title"))),
		el("p", nil, text(T(loc, key))),
	)
}

func emailField(loc Localizer, value string) templ.Component {
	return group(
		el("label", attrs(a("for", "email")), text(T(loc, "register.email"))),
		void("input", a("id", "email"), a("name", "email"), a("type", "email"), a("autocomplete", "email"), flag("required"), a("value", value)),
	)
}

// passwordField renders the password input; new passwords carry the
// minimum length the registration action enforces.
func passwordField(loc Localizer, autocomplete string, isNew bool) templ.Component {
	input := attrs(a("id", "password"), a("name", "password"), a("type", "password"), a("autocomplete", autocomplete))
	if isNew {
		input = append(input, a("minlength", "6"))
	}
	input = append(input, flag("required"))
	return group(
		el("label", attrs(a("for", "password")), text(T(loc, "register.password"))),
		void("input", input...),
	)
}

// crossLink renders "prompt <a href=target>label</a>".
func crossLink(prompt, target, label string) templ.Component {
	return el("p", nil,
		text(prompt),
		raw(" "),
		el("a", attrs(link("href", target)), text(label)),
	)
}
