package record

import "github.com/angeloszaimis/dns-failover/internal/healthcheck"

// Spec is one monitored DNS name with its checks and failover pool.
// It is built once at startup and never mutated.
type Spec struct {
	Domain    string
	Subdomain string
	Checks    []healthcheck.Check
	Pool      []PoolEntry
}

// Name returns the canonical name checks and DNS lookups run against.
func (s Spec) Name() string {
	return CanonicalName(s.Domain, s.Subdomain)
}

// Zone returns the domain with surrounding dots removed, as used for zone
// lookups.
func (s Spec) Zone() string {
	return trimDots(s.Domain)
}
