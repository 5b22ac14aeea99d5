// Package cloudflare implements the failover DNS directory on top of the
// Cloudflare v4 API.
package cloudflare
