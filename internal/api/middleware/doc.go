// Package middleware contains HTTP middleware for request tracing and bearer
// token authentication.
package middleware
