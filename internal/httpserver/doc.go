// Package httpserver wraps http.Server for the operational listener:
// address validation, early binding and graceful shutdown.
package httpserver
