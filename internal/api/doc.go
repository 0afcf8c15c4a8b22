// Package api implements the HTTP client for the remote hero collection
// service.
//
// The package defines its own wire types, decoupled from the root package
// types to avoid circular dependencies; the store converts at the boundary.
// All five collection calls are context-aware, apply a per-request timeout,
// and bound the response body size. Server error responses are surfaced as
// *Error values carrying the status code and message.
package api
