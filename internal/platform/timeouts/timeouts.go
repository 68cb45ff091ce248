// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// RegistrationAction caps one registration attempt, including password
// hashing and the account transaction.
const RegistrationAction = 10 * time.Second

// RemoteAction caps an HTTP round trip from the registration client to the
// web service.
const RemoteAction = 15 * time.Second
