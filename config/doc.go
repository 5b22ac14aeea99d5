// Package config loads the failover configuration from YAML and the
// environment, validates it, and turns each record entry into an immutable
// record.Spec with its health checks built.
package config
