// Package client talks to the Messagely HTTP API on behalf of the terminal
// client.
//
// Client is the transport-agnostic contract used by the CLI; HTTPClient is
// the implementation over net/http. HTTPClient keeps the bearer token issued
// by Register or Login and attaches it to every later call.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable, 401 responses as
// ErrUnauthorized (wrapping the server message). Other non-2xx responses are
// returned as *APIError carrying the status and message from the error body.
package client
