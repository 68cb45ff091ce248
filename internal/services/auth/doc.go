// Package auth defines the identity boundary behind the registration action.
//
// It owns user lifecycle, password credentials and web sessions so the web
// layer only ever sees a registration outcome and an opaque session.
//
// Subpackages:
//   - registration: the registration action and its outcome type
//   - session: web session issuance and resolution
//   - storage: persistence interfaces and the SQLite implementation
//   - user: user domain model, validation and password hashing
package auth
