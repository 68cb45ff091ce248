package templates

import (
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/ifc-cambodge/sreyka/internal/services/web/routepath"
)

// Toast is a rendered notice.
type Toast struct {
	Kind    string
	Message string
}

// Page carries the layout context shared by every page.
type Page struct {
	Title       string
	Lang        string
	CurrentPath string
	RawQuery    string
	ViewerEmail string
	Toasts      []Toast
	Loc         Localizer
}

// SiteTitle returns the site title, prefixed with pageTitle when present.
func SiteTitle(loc Localizer, pageTitle string) string {
	site := T(loc, "layout.title")
	pageTitle = strings.TrimSpace(pageTitle)
	if pageTitle == "" {
		return site
	}
	return pageTitle + " | " + site
}

// Layout renders the document shell around the children in ctx.
func Layout(page Page) templ.Component {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	toasts := make([]templ.Component, 0, len(page.Toasts))
	for _, toast := range page.Toasts {
		toasts = append(toasts, el("div", attrs(a("role", "status"), a("class", "toast toast-"+toast.Kind)), text(toast.Message)))
	}
	return group(
		raw("<!DOCTYPE html>"),
		el("html", attrs(a("lang", lang)),
			el("head", nil,
				void("meta", a("charset", "utf-8")),
				void("meta", a("name", "viewport"), a("content", "width=device-width, initial-scale=1")),
				el("title", nil, text(SiteTitle(page.Loc, page.Title))),
				void("meta", a("name", "description"), a("content", T(page.Loc, "layout.meta_description"))),
			),
			el("body", nil,
				el("header", nil, navigation(page)),
				group(toasts...),
				el("main", nil, children()),
			),
		),
	)
}

func navigation(page Page) templ.Component {
	account := group(
		el("a", attrs(link("href", routepath.Login)), text(T(page.Loc, "nav.sign_in"))),
		el("a", attrs(link("href", routepath.Register)), text(T(page.Loc, "nav.register"))),
	)
	if page.ViewerEmail != "" {
		account = group(
			el("span", attrs(a("class", "viewer")), text(page.ViewerEmail)),
			el("form", attrs(a("method", "post"), link("action", routepath.Logout)),
				el("button", attrs(a("type", "submit")), text(T(page.Loc, "nav.sign_out"))),
			),
		)
	}
	return el("nav", nil,
		el("a", attrs(link("href", routepath.Root)), text(T(page.Loc, "nav.home"))),
		account,
		el("a", attrs(link("href", LanguageURL(page.CurrentPath, page.RawQuery, "en"))), text(T(page.Loc, "nav.lang_en"))),
		el("a", attrs(link("href", LanguageURL(page.CurrentPath, page.RawQuery, "fr"))), text(T(page.Loc, "nav.lang_fr"))),
	)
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = routepath.Root
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set("lang", tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}
