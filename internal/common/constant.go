// Package common contains shared constants and the error taxonomy used across
// jobboard components.
package common

// AuthCookieName is the default cookie carrying the access token issued to
// browser clients.
const AuthCookieName = "token"

// BearerPrefix prefixes the access token in an Authorization header.
const BearerPrefix = "Bearer "
