// Package common contains shared constants and sentinel errors used across
// Messagely components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme expected in AuthorizationHeaderName.
const BearerScheme = "Bearer"

// RequestIDHeaderName is the response header echoing the per-request id.
const RequestIDHeaderName = "X-Request-ID"
