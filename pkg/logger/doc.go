// Package logger builds the structured slog logger shared by the failover
// engine. Production emits JSON; other environments emit text.
package logger
