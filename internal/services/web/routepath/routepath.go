// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root        = "/"
	Login       = "/login"
	Logout      = "/logout"
	Register    = "/register"
	Health      = "/health"
	APIPrefix   = "/api/"
	APIRegister = "/api/register"
	APISession  = "/api/session"
	NextParam   = "next"
)

// LoginWithNext returns the login route that returns to next after sign-in.
func LoginWithNext(next string) string {
	next = LocalRedirect(next)
	if next == Root {
		return Login
	}
	return Login + "?" + NextParam + "=" + url.QueryEscape(next)
}

// LocalRedirect returns raw when it is a same-site absolute path, and Root
// otherwise.
func LocalRedirect(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return Root
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return Root
	}
	return raw
}
