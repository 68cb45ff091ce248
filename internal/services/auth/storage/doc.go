// Package storage defines persistence contracts for identity assets.
//
// Registration and session code depend on these interfaces rather than on
// SQLite schema details.
package storage
