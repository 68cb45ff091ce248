// Package pagerender centralizes page rendering behavior.
package pagerender

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	webi18n "github.com/ifc-cambodge/sreyka/internal/services/web/i18n"
	module "github.com/ifc-cambodge/sreyka/internal/services/web/module"
	apperrors "github.com/ifc-cambodge/sreyka/internal/services/web/platform/errors"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/flash"
	"github.com/ifc-cambodge/sreyka/internal/services/web/platform/httpx"
	webtemplates "github.com/ifc-cambodge/sreyka/internal/services/web/templates"
)

// Page describes one full-page response.
type Page struct {
	// TitleKey is the localization key of the page title.
	TitleKey   string
	StatusCode int
	// Notices are shown after any pending flash batch.
	Notices []flash.Notice
	// Body builds the page content for the resolved localizer.
	Body func(loc webtemplates.Localizer) templ.Component
}

// WritePage renders page inside the shared layout.
func WritePage(w http.ResponseWriter, r *http.Request, viewer module.Viewer, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	loc, tag := webi18n.ResolvePrinter(w, r)

	notices := page.Notices
	if pending, ok := flash.ReadAndClear(w, r); ok {
		notices = append(pending, notices...)
	}

	var body templ.Component = templ.NopComponent
	if page.Body != nil {
		body = page.Body(loc)
	}
	layout := webtemplates.Layout(webtemplates.Page{
		Title:       titleFor(loc, page.TitleKey),
		Lang:        tag.String(),
		CurrentPath: requestPath(r),
		RawQuery:    requestQuery(r),
		ViewerEmail: viewer.Email,
		Toasts:      Toasts(loc, notices),
		Loc:         loc,
	})

	var buf bytes.Buffer
	if err := layout.Render(templ.WithChildren(httpx.RequestContext(r), body), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// Toasts localizes notices for rendering.
func Toasts(loc webtemplates.Localizer, notices []flash.Notice) []webtemplates.Toast {
	toasts := make([]webtemplates.Toast, 0, len(notices))
	for _, notice := range notices {
		key := strings.TrimSpace(notice.Key)
		if key == "" {
			continue
		}
		message := strings.TrimSpace(webtemplates.T(loc, key))
		if message == "" {
			message = key
		}
		toasts = append(toasts, webtemplates.Toast{Kind: string(notice.Kind), Message: message})
	}
	return toasts
}

// ShouldRenderErrorPage reports whether status should use the error page.
func ShouldRenderErrorPage(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// WriteError writes err as a localized error page for not-found and server
// errors, and as plain text otherwise.
func WriteError(w http.ResponseWriter, r *http.Request, viewer module.Viewer, err error) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if !ShouldRenderErrorPage(statusCode) {
		loc, _ := webi18n.ResolvePrinter(w, r)
		http.Error(w, PublicMessage(loc, err), statusCode)
		return
	}
	renderErr := WritePage(w, r, viewer, Page{
		TitleKey:   "error.title",
		StatusCode: statusCode,
		Body: func(loc webtemplates.Localizer) templ.Component {
			return webtemplates.ErrorState(statusCode, loc)
		},
	})
	if renderErr != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
	}
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if key := apperrors.LocalizationKey(err); key != "" {
		if localized := strings.TrimSpace(webtemplates.T(loc, key)); localized != "" {
			return localized
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

func titleFor(loc webtemplates.Localizer, key string) string {
	if strings.TrimSpace(key) == "" {
		return ""
	}
	return webtemplates.T(loc, key)
}

func requestPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}

func requestQuery(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.RawQuery
}
