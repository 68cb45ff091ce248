// Package user defines the auth user model used as the shared identity anchor.
//
// These utilities normalize and validate the email and password submitted at
// registration before anything is persisted.
package user
