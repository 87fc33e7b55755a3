// Package domain contains core concepts of the chat system.
// This file defines connection handles and Session bindings.
// No runtime, network, or UI logic should be added here.
package domain

// Handle identifies a live connection. It is opaque to the core:
// registries only store and compare it.
type Handle string

// Session is the live binding of a handle to an authenticated username.
// Exactly one session exists per connected, authenticated client.
type Session struct {
	Handle   Handle
	Username string
}
