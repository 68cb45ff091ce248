// Package register owns the account registration page.
//
// A Controller runs registration submissions and keeps the latest outcome as
// revisioned State. A Reconciler subscribes to that state and turns each new
// outcome into user-visible effects: a notice, the success flag, a session
// refresh and a route refresh. The web module in this package binds both to
// HTTP, and the register CLI binds them to a remote server via RemoteAction.
package register
