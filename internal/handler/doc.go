// Package handler implements the operational HTTP endpoints: a JSON view of
// per-record failover state and a liveness probe for the evaluation loop.
package handler
