// Package registration implements the account registration action.
//
// Register validates a submitted form, creates the account and its first web
// session, and reports exactly one Status. Every failure mode, including a
// panic inside the action, collapses into one of the closed Status values so
// callers never see a raw error.
package registration
