// Package middleware provides the HTTP middleware shared by all routes:
// request IDs, Prometheus metrics, and bearer-token identity extraction.
package middleware

// contextKey is a private type for context values set by this package.
type contextKey string
