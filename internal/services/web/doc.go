// Package web owns the browser-facing registration, sign-in and session UX.
//
// It binds the auth services to signed session cookies and composes the
// feature modules into one HTTP server.
package web
